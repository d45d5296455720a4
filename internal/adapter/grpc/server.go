package grpc

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/moneymaster-backend/internal/domain"
	"github.com/simaogato/moneymaster-backend/internal/usecase/budget"
	"github.com/simaogato/moneymaster-backend/internal/usecase/dashboard"
	"github.com/simaogato/moneymaster-backend/internal/usecase/export"
	"github.com/simaogato/moneymaster-backend/internal/usecase/insight"
	"github.com/simaogato/moneymaster-backend/internal/usecase/ledger"
	"github.com/simaogato/moneymaster-backend/internal/usecase/query"
)

const defaultTrendMonths = 6

// Server implements the LedgerService gRPC server
type Server struct {
	LedgerService    *ledger.LedgerService
	BudgetService    *budget.BudgetService
	QueryService     *query.QueryService
	DashboardService *dashboard.DashboardService
	Insights         *insight.Generator

	// TrendMonths is the cash flow trend length when a request names none
	TrendMonths int
}

var _ LedgerServiceServer = (*Server)(nil)

// NewServer creates a new gRPC server instance
func NewServer(
	ledgerService *ledger.LedgerService,
	budgetService *budget.BudgetService,
	queryService *query.QueryService,
	dashboardService *dashboard.DashboardService,
	insights *insight.Generator,
) *Server {
	return &Server{
		LedgerService:    ledgerService,
		BudgetService:    budgetService,
		QueryService:     queryService,
		DashboardService: dashboardService,
		Insights:         insights,
		TrendMonths:      defaultTrendMonths,
	}
}

func (s *Server) args(req *structpb.Struct) *args {
	return newArgs(req, s.QueryService.Now().Location())
}

// AddTransaction handles the AddTransaction RPC
func (s *Server) AddTransaction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	a := s.args(req)
	input := ledger.AddTransactionInput{
		Description: a.String("description"),
		Amount:      a.Decimal("amount"),
		Type:        domain.TransactionType(a.String("type")),
		CategoryID:  a.ID("categoryId"),
		WalletID:    a.ID("walletId"),
		Date:        a.Time("date"),
		Notes:       a.String("notes"),
	}
	if err := a.Err(); err != nil {
		return nil, err
	}

	tx, err := s.LedgerService.AddTransaction(ctx, input)
	if err != nil {
		return nil, mapError(err)
	}
	return respond(transactionFields(*tx))
}

// EditTransaction handles the EditTransaction RPC.
// Absent fields keep their stored value.
func (s *Server) EditTransaction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	a := s.args(req)
	id := a.ID("id")
	input := ledger.EditTransactionInput{
		Description: a.OptionalString("description"),
		Amount:      a.OptionalDecimal("amount"),
		CategoryID:  a.OptionalID("categoryId"),
		WalletID:    a.OptionalID("walletId"),
		Date:        a.OptionalTime("date"),
		Notes:       a.OptionalString("notes"),
	}
	if kind := a.OptionalString("type"); kind != nil {
		t := domain.TransactionType(*kind)
		input.Type = &t
	}
	if err := a.Err(); err != nil {
		return nil, err
	}

	tx, err := s.LedgerService.EditTransaction(ctx, id, input)
	if err != nil {
		return nil, mapError(err)
	}
	return respond(transactionFields(*tx))
}

// DeleteTransaction handles the DeleteTransaction RPC
func (s *Server) DeleteTransaction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	a := s.args(req)
	id := a.ID("id")
	if err := a.Err(); err != nil {
		return nil, err
	}

	if err := s.LedgerService.DeleteTransaction(ctx, id); err != nil {
		return nil, mapError(err)
	}
	return respond(map[string]any{"id": id})
}

// Transfer handles the Transfer RPC
func (s *Server) Transfer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	a := s.args(req)
	input := ledger.TransferInput{
		FromWalletID: a.ID("fromWalletId"),
		ToWalletID:   a.ID("toWalletId"),
		Amount:       a.Decimal("amount"),
		Date:         a.Time("date"),
		Notes:        a.String("notes"),
	}
	if err := a.Err(); err != nil {
		return nil, err
	}

	result, err := s.LedgerService.Transfer(ctx, input)
	if err != nil {
		return nil, mapError(err)
	}
	return respond(transferFields(result))
}

// DeleteTransfer handles the DeleteTransfer RPC
func (s *Server) DeleteTransfer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	a := s.args(req)
	groupID := a.UUID("transferGroupId")
	if err := a.Err(); err != nil {
		return nil, err
	}

	if err := s.LedgerService.DeleteTransfer(ctx, groupID); err != nil {
		return nil, mapError(err)
	}
	return respond(map[string]any{"transferGroupId": groupID.String()})
}

// AddWallet handles the AddWallet RPC
func (s *Server) AddWallet(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	a := s.args(req)
	input := ledger.AddWalletInput{
		Name:           a.String("name"),
		Type:           domain.WalletType(a.String("type")),
		OpeningBalance: a.Decimal("openingBalance"),
		Color:          a.String("color"),
	}
	if err := a.Err(); err != nil {
		return nil, err
	}

	w, err := s.LedgerService.AddWallet(ctx, input)
	if err != nil {
		return nil, mapError(err)
	}
	return respond(walletFields(*w))
}

// EditWallet handles the EditWallet RPC
func (s *Server) EditWallet(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	a := s.args(req)
	id := a.ID("id")
	input := ledger.EditWalletInput{
		Name:           a.OptionalString("name"),
		Color:          a.OptionalString("color"),
		OpeningBalance: a.OptionalDecimal("openingBalance"),
	}
	if kind := a.OptionalString("type"); kind != nil {
		t := domain.WalletType(*kind)
		input.Type = &t
	}
	if err := a.Err(); err != nil {
		return nil, err
	}

	w, err := s.LedgerService.EditWallet(ctx, id, input)
	if err != nil {
		return nil, mapError(err)
	}
	return respond(walletFields(*w))
}

// DeleteWallet handles the DeleteWallet RPC
func (s *Server) DeleteWallet(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	a := s.args(req)
	id := a.ID("id")
	cascade := a.Bool("cascade")
	if err := a.Err(); err != nil {
		return nil, err
	}

	if err := s.LedgerService.DeleteWallet(ctx, id, cascade); err != nil {
		return nil, mapError(err)
	}
	return respond(map[string]any{"id": id})
}

// ListWallets handles the ListWallets RPC
func (s *Server) ListWallets(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return respond(map[string]any{
		"wallets":      list(s.LedgerService.ListWallets(ctx), walletFields),
		"totalBalance": s.QueryService.TotalBalance(ctx).String(),
	})
}

// ListCategories handles the ListCategories RPC
func (s *Server) ListCategories(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return respond(map[string]any{
		"categories": list(s.LedgerService.ListCategories(ctx), categoryFields),
	})
}

// FilterTransactions handles the FilterTransactions RPC
func (s *Server) FilterTransactions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	a := s.args(req)
	criteria := query.Criteria{
		Type:       a.String("type"),
		CategoryID: a.ID("categoryId"),
		WalletID:   a.ID("walletId"),
		Period:     query.Period(a.String("period")),
		StartDate:  a.OptionalTime("startDate"),
		EndDate:    a.OptionalTime("endDate"),
	}
	if err := a.Err(); err != nil {
		return nil, err
	}

	txs := s.QueryService.FilterTransactions(ctx, criteria)
	return respond(map[string]any{
		"transactions": list(txs, transactionFields),
		"count":        int64(len(txs)),
	})
}

// AddBudget handles the AddBudget RPC
func (s *Server) AddBudget(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	a := s.args(req)
	input := budget.AddBudgetInput{
		CategoryID: a.ID("categoryId"),
		Amount:     a.Decimal("amount"),
		Month:      a.Int("month"),
		Year:       a.Int("year"),
	}
	if err := a.Err(); err != nil {
		return nil, err
	}

	b, err := s.BudgetService.Add(ctx, input)
	if err != nil {
		return nil, mapError(err)
	}
	return respond(budgetFields(*b))
}

// DeleteBudget handles the DeleteBudget RPC
func (s *Server) DeleteBudget(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	a := s.args(req)
	id := a.ID("id")
	if err := a.Err(); err != nil {
		return nil, err
	}

	if err := s.BudgetService.Delete(ctx, id); err != nil {
		return nil, mapError(err)
	}
	return respond(map[string]any{"id": id})
}

// ListBudgets handles the ListBudgets RPC.
// With month and year set, each budget carries its utilization.
func (s *Server) ListBudgets(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	a := s.args(req)
	month := a.Int("month")
	year := a.Int("year")
	if err := a.Err(); err != nil {
		return nil, err
	}

	resp := map[string]any{
		"budgets": list(s.BudgetService.List(ctx, month, year), budgetFields),
	}
	if month > 0 && year > 0 {
		resp["statuses"] = list(s.QueryService.BudgetStatuses(ctx, month, year), utilizationFields)
	}
	return respond(resp)
}

// GetDashboard handles the GetDashboard RPC
func (s *Server) GetDashboard(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	a := s.args(req)
	months := a.Int("trendMonths")
	if err := a.Err(); err != nil {
		return nil, err
	}
	if months <= 0 {
		months = s.TrendMonths
	}

	resp := summaryFields(s.DashboardService.GetSummary(ctx))
	resp["categories"] = list(s.QueryService.CategoryExpenseBreakdown(ctx), categoryTotalFields)
	resp["trend"] = list(s.QueryService.CashflowTrend(ctx, months), monthTotalsFields)
	return respond(resp)
}

// GetInsights handles the GetInsights RPC
func (s *Server) GetInsights(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return respond(map[string]any{
		"insights": list(s.Insights.Insights(ctx), insightFields),
	})
}

// GetReport handles the GetReport RPC.
// With format "xlsx" the response also carries the workbook, base64 encoded.
func (s *Server) GetReport(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	a := s.args(req)
	criteria := query.ReportCriteria{
		StartDate:  a.OptionalTime("startDate"),
		EndDate:    a.OptionalTime("endDate"),
		CategoryID: a.ID("categoryId"),
	}
	format := a.String("format")
	if err := a.Err(); err != nil {
		return nil, err
	}
	if format != "" && format != "xlsx" {
		return nil, status.Errorf(codes.InvalidArgument, "unsupported report format %q", format)
	}

	report := s.QueryService.Report(ctx, criteria)
	resp := reportFields(report)

	if format == "xlsx" {
		exporter := export.NewExporter(s.QueryService.Store.Categories(ctx), s.QueryService.Store.Wallets(ctx))
		var buf bytes.Buffer
		if err := exporter.WriteReport(&buf, report); err != nil {
			return nil, status.Errorf(codes.Internal, "failed to export report: %v", err)
		}
		resp["xlsx"] = base64.StdEncoding.EncodeToString(buf.Bytes())
	}
	return respond(resp)
}

// Reconcile handles the Reconcile RPC
func (s *Server) Reconcile(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	drifts := s.LedgerService.Reconcile(ctx)
	return respond(map[string]any{
		"drifts":     list(drifts, driftFields),
		"consistent": len(drifts) == 0,
	})
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case domain.IsValidation(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case domain.IsNotFound(err):
		return status.Error(codes.NotFound, err.Error())
	case domain.IsStore(err):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	// Default to Internal error for unknown errors
	return status.Error(codes.Internal, err.Error())
}
