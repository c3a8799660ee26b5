package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"partnerledger-backend/internal/domain"
)

func TestPartnershipRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewPartnershipRepository(db)
	ctx := context.Background()

	partnership := func() *domain.Partnership {
		return &domain.Partnership{
			StoreID:             100,
			UserID:              10,
			Role:                domain.RolePartner,
			Status:              domain.PartnershipStatusActive,
			OwnershipPercentage: decimal.RequireFromString("40.00"),
			DebtBalance:         decimal.Zero,
			StartDate:           time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		}
	}

	t.Run("Locks Store And Inserts", func(t *testing.T) {
		now := time.Now()
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM stores WHERE id = \\$1 FOR UPDATE").
			WithArgs(int64(100)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(100)))
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(ownership_percentage\), 0\) FROM partnerships`).
			WithArgs(int64(100), domain.PartnershipStatusActive, int64(0)).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("50.00"))
		mock.ExpectQuery("INSERT INTO partnerships").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(5), now, now))
		mock.ExpectCommit()

		p := partnership()
		err := repo.Create(ctx, p)
		assert.NoError(t, err)
		assert.Equal(t, int64(5), p.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Ownership Exceeded Rolls Back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM stores WHERE id = \\$1 FOR UPDATE").
			WithArgs(int64(100)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(100)))
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(ownership_percentage\), 0\) FROM partnerships`).
			WithArgs(int64(100), domain.PartnershipStatusActive, int64(0)).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("75.00"))
		mock.ExpectRollback()

		err := repo.Create(ctx, partnership())
		var exceeded *domain.OwnershipExceededError
		assert.ErrorAs(t, err, &exceeded)
		assert.True(t, exceeded.Available.Equal(decimal.RequireFromString("25")))
	})

	t.Run("Rounding Tolerance Admits Repeating Thirds", func(t *testing.T) {
		now := time.Now()
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM stores WHERE id = \\$1 FOR UPDATE").
			WithArgs(int64(100)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(100)))
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(ownership_percentage\), 0\) FROM partnerships`).
			WithArgs(int64(100), domain.PartnershipStatusActive, int64(0)).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("66.66"))
		mock.ExpectQuery("INSERT INTO partnerships").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(6), now, now))
		mock.ExpectCommit()

		p := partnership()
		p.OwnershipPercentage = decimal.RequireFromString("33.34")
		err := repo.Create(ctx, p)
		assert.NoError(t, err)
	})

	t.Run("Pending Row Skips Ownership Check", func(t *testing.T) {
		// A fully-owned store can still take a PENDING partnership; the
		// check runs when the row is activated.
		now := time.Now()
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO partnerships").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), now, now))
		mock.ExpectCommit()

		p := partnership()
		p.Status = domain.PartnershipStatusPending
		err := repo.Create(ctx, p)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing Store", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM stores WHERE id = \\$1 FOR UPDATE").
			WithArgs(int64(100)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		err := repo.Create(ctx, partnership())
		var notFound *domain.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestPartnershipRepository_UpdatePercentage(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewPartnershipRepository(db)
	ctx := context.Background()

	t.Run("Excludes Own Row From Ownership Sum", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT store_id FROM partnerships WHERE id = \\$1").
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"store_id"}).AddRow(int64(100)))
		mock.ExpectQuery("SELECT id FROM stores WHERE id = \\$1 FOR UPDATE").
			WithArgs(int64(100)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(100)))
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(ownership_percentage\), 0\) FROM partnerships`).
			WithArgs(int64(100), domain.PartnershipStatusActive, int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("40.00"))
		mock.ExpectExec("UPDATE partnerships SET ownership_percentage").
			WithArgs(sqlmock.AnyArg(), int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.UpdatePercentage(ctx, 5, decimal.RequireFromString("60.00"))
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPartnershipRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewPartnershipRepository(db)
	ctx := context.Background()

	t.Run("Activation Passes Ownership Check", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT store_id, ownership_percentage, status FROM partnerships WHERE id = \\$1 FOR UPDATE").
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"store_id", "ownership_percentage", "status"}).
				AddRow(int64(100), "40.00", domain.PartnershipStatusPending))
		mock.ExpectQuery("SELECT id FROM stores WHERE id = \\$1 FOR UPDATE").
			WithArgs(int64(100)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(100)))
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(ownership_percentage\), 0\) FROM partnerships`).
			WithArgs(int64(100), domain.PartnershipStatusActive, int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("50.00"))
		mock.ExpectExec("UPDATE partnerships SET status").
			WithArgs(domain.PartnershipStatusActive, nil, int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.UpdateStatus(ctx, 5, domain.PartnershipStatusActive, nil)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Activation Exceeding Ownership Rolls Back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT store_id, ownership_percentage, status FROM partnerships WHERE id = \\$1 FOR UPDATE").
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"store_id", "ownership_percentage", "status"}).
				AddRow(int64(100), "40.00", domain.PartnershipStatusPending))
		mock.ExpectQuery("SELECT id FROM stores WHERE id = \\$1 FOR UPDATE").
			WithArgs(int64(100)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(100)))
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(ownership_percentage\), 0\) FROM partnerships`).
			WithArgs(int64(100), domain.PartnershipStatusActive, int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("75.00"))
		mock.ExpectRollback()

		err := repo.UpdateStatus(ctx, 5, domain.PartnershipStatusActive, nil)
		var exceeded *domain.OwnershipExceededError
		assert.ErrorAs(t, err, &exceeded)
		assert.True(t, exceeded.Available.Equal(decimal.RequireFromString("25")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Deactivation Skips Ownership Check", func(t *testing.T) {
		end := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT store_id, ownership_percentage, status FROM partnerships WHERE id = \\$1 FOR UPDATE").
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"store_id", "ownership_percentage", "status"}).
				AddRow(int64(100), "40.00", domain.PartnershipStatusActive))
		mock.ExpectExec("UPDATE partnerships SET status").
			WithArgs(domain.PartnershipStatusInactive, &end, int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.UpdateStatus(ctx, 5, domain.PartnershipStatusInactive, &end)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing Partnership", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT store_id, ownership_percentage, status FROM partnerships WHERE id = \\$1 FOR UPDATE").
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"store_id", "ownership_percentage", "status"}))
		mock.ExpectRollback()

		err := repo.UpdateStatus(ctx, 99, domain.PartnershipStatusActive, nil)
		var notFound *domain.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}

func TestPartnershipRepository_AdjustDebt(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewPartnershipRepository(db)
	ctx := context.Background()

	t.Run("Returns New Balance", func(t *testing.T) {
		mock.ExpectQuery("UPDATE partnerships SET debt_balance").
			WithArgs(sqlmock.AnyArg(), int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"debt_balance"}).AddRow("380.00"))

		balance, err := repo.AdjustDebt(ctx, 7, decimal.RequireFromString("-120.00"))
		assert.NoError(t, err)
		assert.True(t, balance.Equal(decimal.RequireFromString("380.00")))
	})

	t.Run("Missing Partnership", func(t *testing.T) {
		mock.ExpectQuery("UPDATE partnerships SET debt_balance").
			WithArgs(sqlmock.AnyArg(), int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"debt_balance"}))

		_, err := repo.AdjustDebt(ctx, 99, decimal.NewFromInt(1))
		var notFound *domain.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}
