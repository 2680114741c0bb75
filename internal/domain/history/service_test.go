package history_test

import (
	"context"
	"testing"

	"github.com/rpggio/timekeep/internal/domain/history"
	"github.com/rpggio/timekeep/internal/repository/mocks"
	"github.com/stretchr/testify/require"
)

func TestHistoryService_List(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"
	filter := history.Filter{From: "2024-03-01", To: "2024-03-31"}

	repo := &mocks.HistoryRepository{}
	repo.On("List", ctx, tenantID, filter).Return([]history.Entry{
		{TaskID: "t1", TaskName: "Write", StartDate: "2024-03-04", ElapsedTime: "01:30:00"},
	}, nil)

	svc := history.NewService(repo, nil)
	entries, err := svc.List(ctx, tenantID, filter)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, int64(90*60*1000), entries[0].ElapsedMs())
}

func TestHistoryService_ListValidatesDates(t *testing.T) {
	ctx := context.Background()
	svc := history.NewService(&mocks.HistoryRepository{}, nil)

	_, err := svc.List(ctx, "tenant1", history.Filter{From: "03/01/2024"})
	require.ErrorIs(t, err, history.ErrInvalidDate)

	_, err = svc.List(ctx, "tenant1", history.Filter{From: "2024-04-01", To: "2024-03-01"})
	require.ErrorIs(t, err, history.ErrInvalidRange)
}
