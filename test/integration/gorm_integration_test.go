package integration

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"testing"
	"time"

	"legal-insight-be/internal/entity"
	"legal-insight-be/internal/model"
	"legal-insight-be/internal/repository/specification"
	"legal-insight-be/internal/repository/unitofwork"
	"legal-insight-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, database.WithLogLevel(gormlogger.Warn))
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE EXTENSION IF NOT EXISTS vector`).Error)
	require.NoError(t, db.AutoMigrate(&model.Agreement{}, &model.Clause{}, &model.AnalysisResult{}))
	return db
}

func seedAgreement(t *testing.T, uow unitofwork.UnitOfWork, clauses int) (*entity.Agreement, []*entity.Clause) {
	t.Helper()
	ctx := context.Background()

	agreement := &entity.Agreement{
		Id:        uuid.New(),
		Name:      "Integration MSA " + uuid.NewString()[:8],
		Provider:  "Integration Provider",
		Embedding: []float32{1, 0, 0},
	}
	require.NoError(t, uow.AgreementRepository().Create(ctx, agreement))

	created := make([]*entity.Clause, clauses)
	for i := range created {
		c := &entity.Clause{
			Id:           uuid.New(),
			AgreementId:  agreement.Id,
			ClauseType:   "liability",
			Title:        "Limitation of liability",
			RiskLevel:    "high",
			Favorability: "neutral",
			Embedding:    []float32{1, float32(i), 0},
		}
		require.NoError(t, uow.ClauseRepository().Create(ctx, c))
		created[i] = c
	}
	return agreement, created
}

func TestClauseRepository_ApplyAnalysis(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	factory := unitofwork.NewRepositoryFactory(db)

	agreement, clauses := seedAgreement(t, factory.NewUnitOfWork(ctx), 3)
	t.Cleanup(func() {
		db.Where("id = ?", agreement.Id).Delete(&model.Agreement{})
	})

	patches := make([]entity.ClausePatch, len(clauses))
	for i, c := range clauses {
		patches[i] = entity.ClausePatch{Id: c.Id, X: 0.5, Y: -0.5, ClusterId: i, IsOutlier: i == 2, OutlierScore: float64(i) / 10}
	}

	t.Run("rollback leaves clauses untouched", func(t *testing.T) {
		uow := factory.NewUnitOfWork(ctx)
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.ClauseRepository().ApplyAnalysis(ctx, patches))
		require.NoError(t, uow.Rollback())

		stored, err := factory.NewUnitOfWork(ctx).ClauseRepository().FindAll(ctx, specification.ByAgreementID{AgreementID: agreement.Id})
		require.NoError(t, err)
		for _, c := range stored {
			assert.Nil(t, c.ClusterId)
		}
	})

	t.Run("commit writes every patch", func(t *testing.T) {
		uow := factory.NewUnitOfWork(ctx)
		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.ClauseRepository().ApplyAnalysis(ctx, patches))
		require.NoError(t, uow.AgreementRepository().ApplyProjection(ctx, []entity.AgreementPatch{{Id: agreement.Id, X: 1, Y: 0}}))
		require.NoError(t, uow.Commit())

		stored, err := factory.NewUnitOfWork(ctx).ClauseRepository().FindAll(ctx,
			specification.ByAgreementID{AgreementID: agreement.Id},
			specification.CorpusOrder{Table: "clauses"},
		)
		require.NoError(t, err)
		require.Len(t, stored, 3)

		count, err := factory.NewUnitOfWork(ctx).ClauseRepository().Count(ctx, specification.ByAgreementID{AgreementID: agreement.Id})
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)

		agreements, err := factory.NewUnitOfWork(ctx).AgreementRepository().Count(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, agreements, int64(1))

		for i, c := range stored {
			require.NotNil(t, c.ClusterId)
			assert.Equal(t, agreement.Name, c.AgreementName)
			assert.Equal(t, 0.5, *c.X)
			assert.Equal(t, i == 2, c.IsOutlier)
			assert.Len(t, c.Embedding, 3)
		}
	})

	t.Run("unknown clause fails the batch", func(t *testing.T) {
		uow := factory.NewUnitOfWork(ctx)
		require.NoError(t, uow.Begin(ctx))
		defer uow.Rollback()

		err := uow.ClauseRepository().ApplyAnalysis(ctx, []entity.ClausePatch{{Id: uuid.New()}})
		assert.Error(t, err)
	})
}

func TestAnalysisResultRepository_LatestAndPrune(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	// Isolate from whatever history the database already holds
	tx := db.Begin()
	defer tx.Rollback()
	repo := unitofwork.NewUnitOfWork(tx).AnalysisResultRepository()
	require.NoError(t, tx.Exec(`DELETE FROM analysis_results`).Error)

	runs := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for i, runId := range runs {
		rows := make([]*entity.AnalysisResult, 0, len(entity.AnalysisTypes))
		for _, analysisType := range entity.AnalysisTypes {
			data, _ := json.Marshal(map[string]int{"run": i})
			rows = append(rows, &entity.AnalysisResult{
				Id:           uuid.New(),
				RunId:        runId,
				AnalysisType: analysisType,
				Title:        analysisType,
				Data:         data,
			})
		}
		require.NoError(t, repo.CreateBulk(ctx, rows))
		// created_at must differ between runs
		time.Sleep(10 * time.Millisecond)
	}

	latest, err := repo.LatestByType(ctx, entity.AnalysisTypeOutliers)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, runs[2], latest.RunId)

	perType, err := repo.LatestPerType(ctx)
	require.NoError(t, err)
	require.Len(t, perType, len(entity.AnalysisTypes))
	for i, r := range perType {
		assert.Equal(t, entity.AnalysisTypes[i], r.AnalysisType)
		assert.Equal(t, runs[2], r.RunId)
	}

	pruned, err := repo.PruneRuns(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(len(entity.AnalysisTypes)), pruned)

	left, err := repo.FindAll(ctx, specification.ByRunID{RunID: runs[0]})
	require.NoError(t, err)
	assert.Empty(t, left)
}
