package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/SscSPs/expense_fx_engine/internal/apperrors"
	"github.com/SscSPs/expense_fx_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/expense_fx_engine/internal/core/ports/repositories"
	"github.com/SscSPs/expense_fx_engine/internal/models"
	"github.com/SscSPs/expense_fx_engine/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ruleColumns = `
	rule_id, tenant_id, description, source, currencies, fixed_rates,
	effective_from, effective_to, fallback_rule_id, status, priority,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxRuleRepository implements portsrepo.RuleRepositoryFacade using pgxpool.
type PgxRuleRepository struct {
	BaseRepository
}

// NewPgxRuleRepository creates a new PgxRuleRepository.
func NewPgxRuleRepository(db *pgxpool.Pool) *PgxRuleRepository {
	return &PgxRuleRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var (
	_ portsrepo.RuleRepositoryFacade = (*PgxRuleRepository)(nil)
	_ portsrepo.TxRunner             = (*PgxRuleRepository)(nil)
)

// FindCandidateRules retrieves active rules governing currencyCode that are effective on date.
func (r *PgxRuleRepository) FindCandidateRules(ctx context.Context, tenantID, currencyCode string, date time.Time) ([]domain.ExchangeRateRule, error) {
	query := `SELECT ` + ruleColumns + `
		FROM exchange_rate_rules
		WHERE status = 'active'
		  AND $2 = ANY(currencies)
		  AND (tenant_id = $1 OR tenant_id IS NULL)
		  AND effective_from <= $3::date
		  AND (effective_to IS NULL OR effective_to >= $3::date)
		ORDER BY priority ASC, created_at DESC;`

	rows, err := r.Pool.Query(ctx, query, tenantID, currencyCode, sqlDate(date))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query candidate rules", err)
	}
	return collectRules(rows)
}

// FindRuleByID retrieves a rule by its ID regardless of status.
func (r *PgxRuleRepository) FindRuleByID(ctx context.Context, ruleID string) (*domain.ExchangeRateRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM exchange_rate_rules WHERE rule_id = $1;`

	rule, err := scanRule(r.Pool.QueryRow(ctx, query, ruleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("exchange rate rule " + ruleID)
		}
		return nil, apperrors.NewAppError(500, "failed to find exchange rate rule", err)
	}
	return rule, nil
}

// ListRules retrieves the tenant's rules and global rules, optionally filtered by status.
func (r *PgxRuleRepository) ListRules(ctx context.Context, tenantID string, status *domain.RuleStatus) ([]domain.ExchangeRateRule, error) {
	query := `SELECT ` + ruleColumns + `
		FROM exchange_rate_rules
		WHERE (tenant_id = $1 OR tenant_id IS NULL)
		  AND ($2::text IS NULL OR status = $2::text)
		ORDER BY priority ASC, created_at DESC;`

	var statusArg *string
	if status != nil {
		s := string(*status)
		statusArg = &s
	}

	rows, err := r.Pool.Query(ctx, query, tenantID, statusArg)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list exchange rate rules", err)
	}
	return collectRules(rows)
}

// SaveRule inserts a new rule.
func (r *PgxRuleRepository) SaveRule(ctx context.Context, rule domain.ExchangeRateRule) error {
	modelRule := mapping.ToModelExchangeRateRule(rule)

	var fixedRates []byte
	if len(modelRule.FixedRates) > 0 {
		var err error
		fixedRates, err = json.Marshal(modelRule.FixedRates)
		if err != nil {
			return apperrors.NewAppError(500, "failed to encode fixed rates", err)
		}
	}

	query := `
		INSERT INTO exchange_rate_rules (` + ruleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`

	_, err := r.Pool.Exec(ctx, query,
		modelRule.RuleID, modelRule.TenantID, modelRule.Description, modelRule.Source,
		modelRule.Currencies, fixedRates, sqlDate(modelRule.EffectiveFrom), sqlDatePtr(modelRule.EffectiveTo),
		modelRule.FallbackRuleID, modelRule.Status, modelRule.Priority,
		modelRule.CreatedAt, modelRule.CreatedBy, modelRule.LastUpdatedAt, modelRule.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save exchange rate rule", err)
	}
	return nil
}

// UpdateRuleStatus locks the rule row and sets its status.
func (r *PgxRuleRepository) UpdateRuleStatus(ctx context.Context, ruleID string, status domain.RuleStatus, userID string, at time.Time) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		var current string
		err := tx.QueryRow(ctx,
			`SELECT status FROM exchange_rate_rules WHERE rule_id = $1 FOR UPDATE;`, ruleID,
		).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFoundError("exchange rate rule " + ruleID)
			}
			return apperrors.NewAppError(500, "failed to lock exchange rate rule", err)
		}
		if current == string(status) {
			return nil
		}

		tag, err := tx.Exec(ctx, `
			UPDATE exchange_rate_rules
			SET status = $1, last_updated_at = $2, last_updated_by = $3
			WHERE rule_id = $4;`,
			string(status), at, userID, ruleID,
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to update exchange rate rule status", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NewNotFoundError("exchange rate rule " + ruleID)
		}
		return nil
	})
}

// sqlDate renders the UTC calendar day of t, the day rules are compared on in the domain.
// A text literal keeps the session TimeZone out of the conversion.
func sqlDate(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

func sqlDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	d := sqlDate(*t)
	return &d
}

func collectRules(rows pgx.Rows) ([]domain.ExchangeRateRule, error) {
	defer rows.Close()

	var modelRules []models.ExchangeRateRule
	for rows.Next() {
		rule, err := scanRuleModel(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan exchange rate rule", err)
		}
		modelRules = append(modelRules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating exchange rate rules", err)
	}
	return mapping.ToDomainExchangeRateRules(modelRules), nil
}

func scanRule(row pgx.Row) (*domain.ExchangeRateRule, error) {
	modelRule, err := scanRuleModel(row)
	if err != nil {
		return nil, err
	}
	domainRule := mapping.ToDomainExchangeRateRule(modelRule)
	return &domainRule, nil
}

func scanRuleModel(row pgx.Row) (models.ExchangeRateRule, error) {
	var m models.ExchangeRateRule
	var fixedRates []byte
	err := row.Scan(
		&m.RuleID, &m.TenantID, &m.Description, &m.Source, &m.Currencies, &fixedRates,
		&m.EffectiveFrom, &m.EffectiveTo, &m.FallbackRuleID, &m.Status, &m.Priority,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return m, err
	}
	if len(fixedRates) > 0 {
		if err := json.Unmarshal(fixedRates, &m.FixedRates); err != nil {
			return m, err
		}
	}
	return m, nil
}
