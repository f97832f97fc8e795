package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omkar-009/stockflow-inventory/internal/domain"
	"github.com/omkar-009/stockflow-inventory/internal/testutil"
)

func insertMovement(t *testing.T, repo *MySQLMovementRepository, event domain.MovementEvent) {
	tx, err := repo.db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.Insert(context.Background(), tx, event))
	require.NoError(t, tx.Commit())
}

func TestSumConsumptionSince_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLMovementRepository(db)
	now := time.Now().UTC()

	// Two sales and a restock inside the window; one old sale outside it.
	insertMovement(t, repo, domain.MovementEvent{ProductID: 1, CompanyID: 10, LocationID: 1, Quantity: -5, Reason: domain.MovementReasonSale, OccurredAt: now.AddDate(0, 0, -2)})
	insertMovement(t, repo, domain.MovementEvent{ProductID: 1, CompanyID: 10, LocationID: 1, Quantity: -3, Reason: domain.MovementReasonSale, OccurredAt: now.AddDate(0, 0, -1)})
	insertMovement(t, repo, domain.MovementEvent{ProductID: 1, CompanyID: 10, LocationID: 1, Quantity: 20, Reason: domain.MovementReasonRestock, OccurredAt: now.AddDate(0, 0, -1)})
	insertMovement(t, repo, domain.MovementEvent{ProductID: 1, CompanyID: 10, LocationID: 1, Quantity: -50, Reason: domain.MovementReasonSale, OccurredAt: now.AddDate(0, 0, -40)})

	consumed, err := repo.SumConsumptionSince(context.Background(), 1, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, 8, consumed)

	// Restocks never count toward consumption.
	consumed, err = repo.SumConsumptionSince(context.Background(), 2, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, 0, consumed)
}

func TestListByProduct_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLMovementRepository(db)
	now := time.Now().UTC().Truncate(time.Second)
	orderRef := "order-ref-1"

	insertMovement(t, repo, domain.MovementEvent{ProductID: 1, CompanyID: 10, LocationID: 1, Quantity: -2, Reason: domain.MovementReasonSale, OrderID: &orderRef, OccurredAt: now.Add(-2 * time.Hour)})
	insertMovement(t, repo, domain.MovementEvent{ProductID: 1, CompanyID: 10, LocationID: 1, Quantity: 10, Reason: domain.MovementReasonRestock, OccurredAt: now.Add(-1 * time.Hour)})

	events, err := repo.ListByProduct(context.Background(), 1, nil, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Newest first.
	assert.Equal(t, domain.MovementReasonRestock, events[0].Reason)
	assert.Equal(t, domain.MovementReasonSale, events[1].Reason)
	assert.Equal(t, orderRef, *events[1].OrderID)

	from := now.Add(-90 * time.Minute)
	events, err = repo.ListByProduct(context.Background(), 1, &from, nil, 10, 0)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
