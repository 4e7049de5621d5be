package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	domain "github.com/billforgelabs/billforge/internal/packagetier/domain"
	"github.com/billforgelabs/billforge/internal/packagetier/repository"
	"github.com/billforgelabs/billforge/internal/packagetier/service"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.PackageTier{}))
	return db
}

func newService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := service.New(service.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, db
}

func createReq(minValue, maxValue float64, start, end string) domain.CreateRequest {
	return domain.CreateRequest{
		MinValue:  minValue,
		MaxValue:  maxValue,
		Amount:    2500,
		StartDate: start,
		EndDate:   end,
	}
}

func TestCreateAndGet(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, createReq(100000, 500000, "2025-01-01", "2025-06-30"))
	require.NoError(t, err)
	assert.False(t, created.Synced)
	assert.Empty(t, created.ExternalID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "2025-01-01", got.StartDate)
	assert.Equal(t, "2025-06-30", got.EndDate)
}

func TestCreateRejectsInvalidValues(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, createReq(500000, 100000, "2025-01-01", "2025-06-30"))
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	_, err = svc.Create(ctx, createReq(100000, 500000, "2025-06-30", "2025-01-01"))
	assert.ErrorIs(t, err, domain.ErrInvalidWindow)

	req := createReq(100000, 500000, "2025-01-01", "2025-06-30")
	req.Amount = -1
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	pct := 150.0
	req = createReq(100000, 500000, "2025-01-01", "2025-06-30")
	req.Percentage = &pct
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidPercentage)

	req = createReq(100000, 500000, "01/01/2025", "2025-06-30")
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestCreateRejectsOverlap(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, createReq(100000, 500000, "2025-01-01", "2025-06-30"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, createReq(300000, 700000, "2025-03-01", "2025-12-31"))
	require.Error(t, err)

	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, first.ID, conflict.Tier.ID.String())
	assert.Contains(t, conflict.Error(), "2025-01-01")
}

func TestCreateAllowsDisjointWindow(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, createReq(100000, 500000, "2025-01-01", "2025-06-30"))
	require.NoError(t, err)

	// Same range, later window.
	_, err = svc.Create(ctx, createReq(100000, 500000, "2025-07-01", "2025-12-31"))
	require.NoError(t, err)
}

func TestUpdateDoesNotConflictWithItself(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, createReq(100000, 500000, "2025-01-01", "2025-06-30"))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, domain.UpdateRequest{
		MinValue:  100000,
		MaxValue:  600000,
		Amount:    3000,
		StartDate: "2025-01-01",
		EndDate:   "2025-06-30",
	})
	require.NoError(t, err)
	assert.Equal(t, float64(600000), updated.MaxValue)
	assert.Equal(t, float64(3000), updated.Amount)
}

func TestDeletedTiersDoNotConflict(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, createReq(100000, 500000, "2025-01-01", "2025-06-30"))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Create(ctx, createReq(100000, 500000, "2025-01-01", "2025-06-30"))
	require.NoError(t, err)

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListPagination(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, createReq(float64(i*100000), float64(i*100000+50000), "2025-01-01", "2025-12-31"))
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, domain.ListRequest{PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page.Tiers, 2)
	assert.True(t, page.PageInfo.HasMore)
	require.NotEmpty(t, page.PageInfo.NextPageToken)

	next, err := svc.List(ctx, domain.ListRequest{PageSize: 10, PageToken: page.PageInfo.NextPageToken})
	require.NoError(t, err)
	assert.Len(t, next.Tiers, 3)
	assert.False(t, next.PageInfo.HasMore)
}

func TestImportCSV(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	csvBody := strings.Join([]string{
		"min_value,max_value,amount,percentage,start_date,end_date",
		"100000,500000,2500,,2025-01-01,2025-06-30",
		"500001,1000000,5000,10,2025-01-01,2025-06-30",
		"not-a-number,1,1,,2025-01-01,2025-06-30",
		"300000,700000,2500,,2025-03-01,2025-12-31", // overlaps the first row
	}, "\n")

	result, err := svc.Import(ctx, strings.NewReader(csvBody))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 4, result.Errors[0].Row)
	assert.Equal(t, 5, result.Errors[1].Row)
}
