package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/syedhamza2135/Portfolio-Pulse/internal/models"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/pagination"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/testutil"
)

func TestValueHolding(t *testing.T) {
	t.Run("falls_back_to_cost_without_price", func(t *testing.T) {
		h := models.Holding{
			Quantity:    decimal.NewFromInt(10),
			AverageCost: decimal.NewFromInt(150),
		}

		v := valueHolding(h)

		testutil.AssertDecimalEqual(t, decimal.NewFromInt(1500), v.TotalCost)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(1500), v.CurrentValue)
		testutil.AssertDecimalEqual(t, decimal.Zero, v.ProfitLoss)
		if v.ProfitLossPercent == nil {
			t.Fatal("expected a profit/loss percent for non-zero cost")
		}
		testutil.AssertDecimalEqual(t, decimal.Zero, *v.ProfitLossPercent)
	})

	t.Run("uses_current_price_when_known", func(t *testing.T) {
		price := decimal.NewFromInt(180)
		h := models.Holding{
			Quantity:     decimal.NewFromInt(10),
			AverageCost:  decimal.NewFromInt(150),
			CurrentPrice: &price,
		}

		v := valueHolding(h)

		testutil.AssertDecimalEqual(t, decimal.NewFromInt(1500), v.TotalCost)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(1800), v.CurrentValue)
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(300), v.ProfitLoss)
		if v.ProfitLossPercent == nil {
			t.Fatal("expected a profit/loss percent")
		}
		testutil.AssertDecimalEqual(t, decimal.NewFromInt(20), *v.ProfitLossPercent)
	})

	t.Run("percent_rounds_to_two_places", func(t *testing.T) {
		price := decimal.NewFromInt(100)
		h := models.Holding{
			Quantity:     decimal.NewFromInt(3),
			AverageCost:  decimal.NewFromInt(90),
			CurrentPrice: &price,
		}

		v := valueHolding(h)

		// 30 / 270 * 100 = 11.111... -> 11.11
		if v.ProfitLossPercent == nil {
			t.Fatal("expected a profit/loss percent")
		}
		testutil.AssertDecimalEqual(t, decimal.NewFromFloat(11.11), *v.ProfitLossPercent)
	})

	t.Run("zero_cost_omits_percent", func(t *testing.T) {
		price := decimal.NewFromInt(5)
		h := models.Holding{
			Quantity:     decimal.NewFromInt(10),
			AverageCost:  decimal.Zero,
			CurrentPrice: &price,
		}

		v := valueHolding(h)

		testutil.AssertDecimalEqual(t, decimal.NewFromInt(50), v.ProfitLoss)
		if v.ProfitLossPercent != nil {
			t.Errorf("expected percent to be omitted for zero cost, got %s", v.ProfitLossPercent)
		}
	})
}

func TestCreatePortfolio(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPortfolioService(db)

	user := testutil.CreateTestUser(t, db)

	portfolio, err := svc.CreatePortfolio(user.ID, "Retirement", "Long-term savings")
	testutil.AssertNoError(t, err)

	if portfolio.ID == 0 {
		t.Error("expected a persisted portfolio ID")
	}
	if portfolio.UserID != user.ID {
		t.Errorf("expected owner %d, got %d", user.ID, portfolio.UserID)
	}
	if portfolio.Name != "Retirement" {
		t.Errorf("expected name Retirement, got %s", portfolio.Name)
	}
	if portfolio.LastUpdated.IsZero() {
		t.Error("expected last_updated to be set")
	}
}

func TestGetUserPortfolios(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPortfolioService(db)

	owner := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	first := testutil.CreateTestPortfolio(t, db, owner.ID)
	second := testutil.CreateTestPortfolio(t, db, owner.ID)
	testutil.CreateTestPortfolio(t, db, other.ID)

	t.Run("lists_only_own_portfolios_oldest_first", func(t *testing.T) {
		resp, err := svc.GetUserPortfolios(owner.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if resp.TotalItems != 2 {
			t.Fatalf("expected 2 portfolios, got %d", resp.TotalItems)
		}
		if resp.Data[0].ID != first.ID || resp.Data[1].ID != second.ID {
			t.Error("expected portfolios ordered oldest first")
		}
	})

	t.Run("empty_for_user_without_portfolios", func(t *testing.T) {
		stranger := testutil.CreateTestUser(t, db)
		resp, err := svc.GetUserPortfolios(stranger.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if resp.TotalItems != 0 || len(resp.Data) != 0 {
			t.Errorf("expected no portfolios, got %d", resp.TotalItems)
		}
	})

	t.Run("paginates", func(t *testing.T) {
		resp, err := svc.GetUserPortfolios(owner.ID, pagination.PageRequest{Page: 2, PageSize: 1})
		testutil.AssertNoError(t, err)

		if len(resp.Data) != 1 {
			t.Fatalf("expected 1 item on page 2, got %d", len(resp.Data))
		}
		if resp.Data[0].ID != second.ID {
			t.Errorf("expected portfolio %d on page 2, got %d", second.ID, resp.Data[0].ID)
		}
	})
}

func TestGetPortfolioByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPortfolioService(db)

	owner := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	portfolio := testutil.CreateTestPortfolio(t, db, owner.ID)

	t.Run("owner_can_read", func(t *testing.T) {
		got, err := svc.GetPortfolioByID(owner.ID, portfolio.ID)
		testutil.AssertNoError(t, err)
		if got.ID != portfolio.ID {
			t.Errorf("expected portfolio %d, got %d", portfolio.ID, got.ID)
		}
	})

	t.Run("other_user_sees_not_found", func(t *testing.T) {
		_, err := svc.GetPortfolioByID(other.ID, portfolio.ID)
		testutil.AssertAppError(t, err, "PORTFOLIO_NOT_FOUND")
	})

	t.Run("missing_portfolio", func(t *testing.T) {
		_, err := svc.GetPortfolioByID(owner.ID, 99999)
		testutil.AssertAppError(t, err, "PORTFOLIO_NOT_FOUND")
	})
}

func TestGetPortfolioDetail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPortfolioService(db)

	owner := testutil.CreateTestUser(t, db)
	portfolio := testutil.CreateTestPortfolio(t, db, owner.ID)

	priced := testutil.CreateTestHoldingWithPosition(t, db, portfolio.ID,
		decimal.NewFromInt(10), decimal.NewFromInt(150))
	price := decimal.NewFromInt(180)
	if err := db.Model(priced).Update("current_price", price).Error; err != nil {
		t.Fatalf("failed to set price: %v", err)
	}
	testutil.CreateTestHoldingWithPosition(t, db, portfolio.ID,
		decimal.NewFromInt(2), decimal.NewFromInt(500))

	detail, err := svc.GetPortfolioDetail(owner.ID, portfolio.ID)
	testutil.AssertNoError(t, err)

	if len(detail.Holdings) != 2 {
		t.Fatalf("expected 2 holdings, got %d", len(detail.Holdings))
	}
	if detail.Holdings[0].ID != priced.ID {
		t.Error("expected holdings ordered oldest first")
	}

	// priced: cost 1500, value 1800; unpriced: cost 1000, value 1000.
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(2500), detail.Summary.TotalCost)
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(2800), detail.Summary.CurrentValue)
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(300), detail.Summary.ProfitLoss)
	if detail.Summary.HoldingCount != 2 {
		t.Errorf("expected holding count 2, got %d", detail.Summary.HoldingCount)
	}
	if detail.Summary.ProfitLossPercent == nil {
		t.Fatal("expected a summary profit/loss percent")
	}
	testutil.AssertDecimalEqual(t, decimal.NewFromInt(12), *detail.Summary.ProfitLossPercent)
}

func TestUpdatePortfolio(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPortfolioService(db)

	owner := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	t.Run("updates_name_only", func(t *testing.T) {
		portfolio := testutil.CreateTestPortfolio(t, db, owner.ID)

		name := "Renamed"
		updated, err := svc.UpdatePortfolio(owner.ID, portfolio.ID, &name, nil)
		testutil.AssertNoError(t, err)

		if updated.Name != "Renamed" {
			t.Errorf("expected name Renamed, got %s", updated.Name)
		}
		if updated.Description != portfolio.Description {
			t.Error("untouched field must be preserved")
		}
	})

	t.Run("updates_description_only", func(t *testing.T) {
		portfolio := testutil.CreateTestPortfolio(t, db, owner.ID)

		desc := "New description"
		updated, err := svc.UpdatePortfolio(owner.ID, portfolio.ID, nil, &desc)
		testutil.AssertNoError(t, err)

		if updated.Description != "New description" {
			t.Errorf("expected updated description, got %q", updated.Description)
		}
		if updated.Name != portfolio.Name {
			t.Error("untouched field must be preserved")
		}
	})

	t.Run("requires_at_least_one_field", func(t *testing.T) {
		portfolio := testutil.CreateTestPortfolio(t, db, owner.ID)

		_, err := svc.UpdatePortfolio(owner.ID, portfolio.ID, nil, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("other_user_sees_not_found", func(t *testing.T) {
		portfolio := testutil.CreateTestPortfolio(t, db, owner.ID)

		name := "Hijacked"
		_, err := svc.UpdatePortfolio(other.ID, portfolio.ID, &name, nil)
		testutil.AssertAppError(t, err, "PORTFOLIO_NOT_FOUND")

		var unchanged models.Portfolio
		testutil.AssertNoError(t, db.First(&unchanged, portfolio.ID).Error)
		if unchanged.Name != portfolio.Name {
			t.Error("portfolio must be unchanged after a denied update")
		}
	})
}

func TestDeletePortfolio(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewPortfolioService(db)

	owner := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	t.Run("deletes_portfolio_and_children", func(t *testing.T) {
		portfolio := testutil.CreateTestPortfolio(t, db, owner.ID)
		holding := testutil.CreateTestHolding(t, db, portfolio.ID)
		tx := &models.Transaction{
			PortfolioID: portfolio.ID,
			UserID:      owner.ID,
			Type:        models.TransactionTypeBuy,
			Ticker:      holding.Ticker,
			Quantity:    holding.Quantity,
			Price:       holding.AverageCost,
		}
		testutil.AssertNoError(t, db.Create(tx).Error)

		testutil.AssertNoError(t, svc.DeletePortfolio(owner.ID, portfolio.ID))

		var portfolios, holdings, transactions int64
		db.Model(&models.Portfolio{}).Where("id = ?", portfolio.ID).Count(&portfolios)
		db.Model(&models.Holding{}).Where("portfolio_id = ?", portfolio.ID).Count(&holdings)
		db.Model(&models.Transaction{}).Where("portfolio_id = ?", portfolio.ID).Count(&transactions)
		if portfolios != 0 || holdings != 0 || transactions != 0 {
			t.Errorf("expected full cascade, got %d portfolios, %d holdings, %d transactions",
				portfolios, holdings, transactions)
		}
	})

	t.Run("other_user_sees_not_found", func(t *testing.T) {
		portfolio := testutil.CreateTestPortfolio(t, db, owner.ID)

		err := svc.DeletePortfolio(other.ID, portfolio.ID)
		testutil.AssertAppError(t, err, "PORTFOLIO_NOT_FOUND")

		var count int64
		db.Model(&models.Portfolio{}).Where("id = ?", portfolio.ID).Count(&count)
		if count != 1 {
			t.Error("portfolio must survive a denied delete")
		}
	})
}
