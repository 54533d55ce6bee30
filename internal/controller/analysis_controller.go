package controller

import (
	"errors"

	"legal-insight-be/internal/dto"
	"legal-insight-be/internal/pkg/serverutils"
	"legal-insight-be/internal/service"
	"legal-insight-be/pkg/lock"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAnalysisController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	Run(ctx *fiber.Ctx) error
	RunSync(ctx *fiber.Ctx) error
	GetLatest(ctx *fiber.Ctx) error
	GetLatestByType(ctx *fiber.Ctx) error
	GetRun(ctx *fiber.Ctx) error
}

type analysisController struct {
	service    service.IAnalysisService
	jobService service.IAnalysisJobService
}

func NewAnalysisController(service service.IAnalysisService, jobService service.IAnalysisJobService) IAnalysisController {
	return &analysisController{
		service:    service,
		jobService: jobService,
	}
}

func (c *analysisController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/analysis")
	h.Use(jwtMiddleware)
	h.Post("/run", c.Run)
	h.Post("/run/sync", c.RunSync)
	h.Get("/latest", c.GetLatest)
	h.Get("/latest/:type", c.GetLatestByType)
	h.Get("/runs/:runId", c.GetRun)
}

func (c *analysisController) Run(ctx *fiber.Ctx) error {
	res, err := c.jobService.Enqueue(ctx.UserContext(), service.TriggerHTTP)
	if err != nil {
		return mapAnalysisError(err)
	}

	body := serverutils.SuccessResponse("Analysis queued", res)
	body.Code = fiber.StatusAccepted
	return ctx.Status(fiber.StatusAccepted).JSON(body)
}

func (c *analysisController) RunSync(ctx *fiber.Ctx) error {
	res, err := c.jobService.RunNow(ctx.UserContext())
	if err != nil {
		return mapAnalysisError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Analysis finished", res))
}

func (c *analysisController) GetLatest(ctx *fiber.Ctx) error {
	res, err := c.service.GetLatest(ctx.UserContext())
	if err != nil {
		return mapAnalysisError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get latest analysis", res))
}

func (c *analysisController) GetLatestByType(ctx *fiber.Ctx) error {
	req := dto.LatestAnalysisRequest{AnalysisType: ctx.Params("type")}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.GetLatestByType(ctx.UserContext(), req.AnalysisType)
	if err != nil {
		return mapAnalysisError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get latest analysis", res))
}

func (c *analysisController) GetRun(ctx *fiber.Ctx) error {
	req := dto.AnalysisRunRequest{RunId: ctx.Params("runId")}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	runId, _ := uuid.Parse(req.RunId)

	res, err := c.service.GetRun(ctx.UserContext(), runId)
	if err != nil {
		return mapAnalysisError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get analysis run", res))
}

func mapAnalysisError(err error) error {
	switch {
	case errors.Is(err, lock.ErrLocked):
		return fiber.NewError(fiber.StatusConflict, "An analysis run is already in progress")
	case errors.Is(err, service.ErrEmptyCorpus), errors.Is(err, service.ErrMalformedEmbedding):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrUnknownAnalysisType):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNoAnalysisResult), errors.Is(err, service.ErrRunNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		return err
	}
}
