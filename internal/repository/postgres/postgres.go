package postgres

import (
	"database/sql"

	"partnerledger-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.StoreRepository
	repository.TransactionRepository
	repository.PartnershipRepository
	repository.SettlementRepository
	repository.ImportBatchRepository
	repository.AccountRepository
	repository.ValidationRunRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                      db,
		StoreRepository:         NewStoreRepository(db),
		TransactionRepository:   NewTransactionRepository(db),
		PartnershipRepository:   NewPartnershipRepository(db),
		SettlementRepository:    NewSettlementRepository(db),
		ImportBatchRepository:   NewImportBatchRepository(db),
		AccountRepository:       NewAccountRepository(db),
		ValidationRunRepository: NewValidationRunRepository(db),
	}
}
