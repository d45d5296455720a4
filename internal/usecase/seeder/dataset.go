package seeder

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/simaogato/moneymaster-backend/internal/domain"
)

// Dataset is the default data a fresh store starts with
type Dataset struct {
	Wallets      []domain.Wallet
	Categories   []domain.Category
	Transactions []domain.Transaction
	Budgets      []domain.Budget
}

// walletSeed pairs a default wallet with the balance it displays once the
// sample transactions are applied
type walletSeed struct {
	name    string
	kind    domain.WalletType
	balance int64
	color   string
}

var defaultWallets = []walletSeed{
	{"Dompet Utama", domain.WalletTypeCash, 5000000, "#4a6bff"},
	{"Rekening BCA", domain.WalletTypeBank, 15000000, "#28a745"},
	{"OVO", domain.WalletTypeDigital, 2500000, "#6f42c1"},
}

var defaultCategories = []domain.Category{
	{ID: 1, Name: "Gaji", Type: domain.TransactionTypeIncome, Color: "#28a745"},
	{ID: 2, Name: "Investasi", Type: domain.TransactionTypeIncome, Color: "#20c997"},
	{ID: 3, Name: "Hadiah", Type: domain.TransactionTypeIncome, Color: "#17a2b8"},
	{ID: 4, Name: "Makanan & Minuman", Type: domain.TransactionTypeExpense, Color: "#dc3545"},
	{ID: 5, Name: "Transportasi", Type: domain.TransactionTypeExpense, Color: "#fd7e14"},
	{ID: 6, Name: "Belanja", Type: domain.TransactionTypeExpense, Color: "#e83e8c"},
	{ID: 7, Name: "Hiburan", Type: domain.TransactionTypeExpense, Color: "#6f42c1"},
	{ID: 8, Name: "Kesehatan", Type: domain.TransactionTypeExpense, Color: "#20c997"},
	{ID: 9, Name: "Pendidikan", Type: domain.TransactionTypeExpense, Color: "#17a2b8"},
	{ID: 10, Name: "Tagihan", Type: domain.TransactionTypeExpense, Color: "#6c757d"},
}

type transactionSeed struct {
	description string
	amount      int64
	kind        domain.TransactionType
	categoryID  int64
	walletID    int64
	day         int
	notes       string
}

var defaultTransactions = []transactionSeed{
	{"Gaji Bulanan", 7500000, domain.TransactionTypeIncome, 1, 2, 5, "Gaji dari perusahaan"},
	{"Belanja Bulanan", 1200000, domain.TransactionTypeExpense, 4, 1, 10, "Belanja kebutuhan bulanan"},
	{"Bensin Motor", 50000, domain.TransactionTypeExpense, 5, 1, 12, ""},
	{"Bayar Listrik", 450000, domain.TransactionTypeExpense, 10, 2, 15, "Tagihan listrik bulanan"},
	{"Nonton Bioskop", 120000, domain.TransactionTypeExpense, 7, 3, 18, "Nonton film"},
	{"Dividen Saham", 350000, domain.TransactionTypeIncome, 2, 2, 20, "Dividen saham BBCA"},
}

type budgetSeed struct {
	categoryID int64
	amount     int64
}

var defaultBudgets = []budgetSeed{
	{4, 1500000},
	{5, 500000},
	{7, 300000},
}

// DefaultDataset builds the default data relative to now: sample
// transactions and budgets fall in now's calendar month
func DefaultDataset(now time.Time) Dataset {
	loc := now.Location()
	year, month, _ := now.Date()

	txs := make([]domain.Transaction, 0, len(defaultTransactions))
	effects := make(map[int64]decimal.Decimal)
	for i, seed := range defaultTransactions {
		tx := domain.Transaction{
			ID:          int64(i + 1),
			Description: seed.description,
			Amount:      decimal.NewFromInt(seed.amount),
			Type:        seed.kind,
			CategoryID:  seed.categoryID,
			WalletID:    seed.walletID,
			Date:        time.Date(year, month, seed.day, 0, 0, 0, 0, loc),
			Notes:       seed.notes,
			CreatedAt:   now,
		}
		effects[tx.WalletID] = effects[tx.WalletID].Add(tx.Effect())
		txs = append(txs, tx)
	}

	wallets := make([]domain.Wallet, 0, len(defaultWallets))
	for i, seed := range defaultWallets {
		id := int64(i + 1)
		balance := decimal.NewFromInt(seed.balance)
		wallets = append(wallets, domain.Wallet{
			ID:             id,
			Name:           seed.name,
			Type:           seed.kind,
			Balance:        balance,
			OpeningBalance: balance.Sub(effects[id]),
			Color:          seed.color,
			CreatedAt:      now,
		})
	}

	budgets := make([]domain.Budget, 0, len(defaultBudgets))
	for i, seed := range defaultBudgets {
		budgets = append(budgets, domain.Budget{
			ID:         int64(i + 1),
			CategoryID: seed.categoryID,
			Amount:     decimal.NewFromInt(seed.amount),
			Month:      int(month),
			Year:       year,
			CreatedAt:  now,
		})
	}

	categories := make([]domain.Category, len(defaultCategories))
	copy(categories, defaultCategories)

	return Dataset{
		Wallets:      wallets,
		Categories:   categories,
		Transactions: txs,
		Budgets:      budgets,
	}
}
