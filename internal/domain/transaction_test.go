package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLookupCategory(t *testing.T) {
	t.Run("Known Categories", func(t *testing.T) {
		info, err := LookupCategory(CategorySales)
		assert.NoError(t, err)
		assert.Equal(t, DirectionIncome, info.Direction)
		assert.False(t, info.Bidirectional)

		info, err = LookupCategory(CategoryPayroll)
		assert.NoError(t, err)
		assert.Equal(t, DirectionExpense, info.Direction)

		info, err = LookupCategory(CategoryPersonalExpense)
		assert.NoError(t, err)
		assert.Equal(t, DirectionPersonal, info.Direction)

		info, err = LookupCategory(CategoryBalanceAdjustment)
		assert.NoError(t, err)
		assert.True(t, info.Bidirectional)
	})

	t.Run("Unknown Category", func(t *testing.T) {
		_, err := LookupCategory("GIFTS")
		var unknown *UnknownCategoryError
		assert.ErrorAs(t, err, &unknown)
		assert.Equal(t, TransactionCategory("GIFTS"), unknown.Category)
	})
}

func TestValidateCategoryDirection(t *testing.T) {
	t.Run("Matching Direction", func(t *testing.T) {
		assert.NoError(t, ValidateCategoryDirection(CategorySales, DirectionIncome))
		assert.NoError(t, ValidateCategoryDirection(CategoryInventory, DirectionExpense))
		assert.NoError(t, ValidateCategoryDirection(CategoryPersonalExpense, DirectionPersonal))
	})

	t.Run("Mismatched Direction", func(t *testing.T) {
		var mismatch *CategoryDirectionMismatchError
		assert.ErrorAs(t, ValidateCategoryDirection(CategorySales, DirectionExpense), &mismatch)
		assert.ErrorAs(t, ValidateCategoryDirection(CategoryRefund, DirectionIncome), &mismatch)
		assert.ErrorAs(t, ValidateCategoryDirection(CategoryPersonalExpense, DirectionExpense), &mismatch)
	})

	t.Run("Adjustment Accepts Either Sign", func(t *testing.T) {
		assert.NoError(t, ValidateCategoryDirection(CategoryBalanceAdjustment, DirectionIncome))
		assert.NoError(t, ValidateCategoryDirection(CategoryBalanceAdjustment, DirectionExpense))

		var mismatch *CategoryDirectionMismatchError
		assert.ErrorAs(t, ValidateCategoryDirection(CategoryBalanceAdjustment, DirectionPersonal), &mismatch)
	})
}

func TestTransaction_AffectsDebt(t *testing.T) {
	partnershipID := int64(7)
	amount := decimal.RequireFromString("150.00")

	t.Run("Personal Expense Increases Debt", func(t *testing.T) {
		tx := &Transaction{
			Category:        CategoryPersonalExpense,
			IsPersonal:      true,
			ReportingAmount: amount,
			PartnershipID:   &partnershipID,
		}
		delta, ok := tx.AffectsDebt()
		assert.True(t, ok)
		assert.True(t, amount.Equal(delta))
	})

	t.Run("Repayment Decreases Debt", func(t *testing.T) {
		tx := &Transaction{
			Category:        CategoryPartnerRepayment,
			ReportingAmount: amount,
			PartnershipID:   &partnershipID,
		}
		delta, ok := tx.AffectsDebt()
		assert.True(t, ok)
		assert.True(t, amount.Neg().Equal(delta))
	})

	t.Run("Business Transactions Do Not Touch Debt", func(t *testing.T) {
		tx := &Transaction{
			Category:        CategorySales,
			ReportingAmount: amount,
			PartnershipID:   &partnershipID,
		}
		_, ok := tx.AffectsDebt()
		assert.False(t, ok)
	})

	t.Run("No Partnership No Debt", func(t *testing.T) {
		tx := &Transaction{
			Category:        CategoryPersonalExpense,
			IsPersonal:      true,
			ReportingAmount: amount,
		}
		_, ok := tx.AffectsDebt()
		assert.False(t, ok)
	})
}
