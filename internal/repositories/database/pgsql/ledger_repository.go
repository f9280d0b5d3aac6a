package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openbooks-app/openbooks/internal/apperrors"
	"github.com/openbooks-app/openbooks/internal/core/domain"
	portsrepo "github.com/openbooks-app/openbooks/internal/core/ports/repositories"
	"github.com/openbooks-app/openbooks/internal/models"
	"github.com/openbooks-app/openbooks/internal/utils/mapping"
	"github.com/openbooks-app/openbooks/internal/utils/pagination"
)

const headerColumns = `header_id, organization_id, source_type, source_id, posting_date, description, total_debit, total_credit, reverses_header_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxLedgerRepository struct {
	baseRepository
}

// newPgxLedgerRepository creates a new repository for posted ledger data.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{baseRepository: baseRepository{Pool: pool}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

func scanHeader(row pgx.Row) (*models.GLHeader, error) {
	var m models.GLHeader
	err := row.Scan(
		&m.HeaderID,
		&m.OrganizationID,
		&m.SourceType,
		&m.SourceID,
		&m.PostingDate,
		&m.Description,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.ReversesHeaderID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SavePosting persists a header, its lines, and the optional idempotency
// record in a single database transaction. The unique index on the
// idempotency table is what serializes concurrent requests carrying the same
// key: the losing transaction rolls back entirely and surfaces ErrDuplicate.
func (r *PgxLedgerRepository) SavePosting(ctx context.Context, header domain.GLHeader, lines []domain.GLLine, idempotencyKey *domain.IdempotencyKey) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return r.savePostingTx(ctx, tx, header, lines, idempotencyKey)
	})
}

func (r *PgxLedgerRepository) savePostingTx(ctx context.Context, tx pgx.Tx, header domain.GLHeader, lines []domain.GLLine, idempotencyKey *domain.IdempotencyKey) error {
	// 1. Insert the header.
	m := mapping.ToModelGLHeader(header)
	headerQuery := `
		INSERT INTO gl_headers (` + headerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := tx.Exec(ctx, headerQuery,
		m.HeaderID,
		m.OrganizationID,
		m.SourceType,
		m.SourceID,
		m.PostingDate,
		m.Description,
		m.TotalDebit,
		m.TotalCredit,
		m.ReversesHeaderID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: posting %s already exists", apperrors.ErrDuplicate, m.HeaderID)
		}
		return apperrors.NewAppError(500, "failed to insert posting header "+m.HeaderID, err)
	}

	// 2. Batch-insert the lines.
	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO gl_lines (line_id, header_id, line_number, account_id, debit, credit, party_type, party_id, description, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	for _, line := range lines {
		ml := mapping.ToModelGLLine(line)
		batch.Queue(lineQuery,
			ml.LineID,
			ml.HeaderID,
			ml.LineNumber,
			ml.AccountID,
			ml.Debit,
			ml.Credit,
			nullable(ml.PartyType),
			nullable(ml.PartyID),
			ml.Description,
			ml.CreatedAt,
			ml.CreatedBy,
			ml.LastUpdatedAt,
			ml.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for posting "+m.HeaderID, err)
	}

	// 3. Insert the idempotency record, if the request carried a key.
	if idempotencyKey != nil {
		mk := mapping.ToModelIdempotencyKey(*idempotencyKey)
		idemQuery := `
			INSERT INTO idempotency_keys (organization_id, scope_key, request_hash, response, status_code, created_at, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7);
		`
		_, err = tx.Exec(ctx, idemQuery,
			mk.OrganizationID,
			mk.ScopeKey,
			mk.RequestHash,
			mk.Response,
			mk.StatusCode,
			mk.CreatedAt,
			mk.CreatedBy,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: idempotency key already recorded for scope %s", apperrors.ErrDuplicate, mk.ScopeKey)
			}
			return apperrors.NewAppError(500, "failed to insert idempotency record for posting "+m.HeaderID, err)
		}
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// FindHeaderByID retrieves a posting header by its ID.
func (r *PgxLedgerRepository) FindHeaderByID(ctx context.Context, headerID string) (*domain.GLHeader, error) {
	query := `SELECT ` + headerColumns + ` FROM gl_headers WHERE header_id = $1;`

	m, err := scanHeader(r.Pool.QueryRow(ctx, query, headerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find posting header "+headerID, err)
	}

	header := mapping.ToDomainGLHeader(*m)
	return &header, nil
}

// FindLinesByHeaderID retrieves all lines of a posting ordered by line number.
func (r *PgxLedgerRepository) FindLinesByHeaderID(ctx context.Context, headerID string) ([]domain.GLLine, error) {
	query := `
		SELECT line_id, header_id, line_number, account_id, debit, credit, party_type, party_id, description, created_at, created_by, last_updated_at, last_updated_by
		FROM gl_lines
		WHERE header_id = $1
		ORDER BY line_number;
	`
	rows, err := r.Pool.Query(ctx, query, headerID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for posting "+headerID, err)
	}
	defer rows.Close()

	lines := []models.GLLine{}
	for rows.Next() {
		var m models.GLLine
		var partyType, partyID *string
		scanErr := rows.Scan(
			&m.LineID,
			&m.HeaderID,
			&m.LineNumber,
			&m.AccountID,
			&m.Debit,
			&m.Credit,
			&partyType,
			&partyID,
			&m.Description,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for posting "+headerID, scanErr)
		}
		if partyType != nil {
			m.PartyType = *partyType
		}
		if partyID != nil {
			m.PartyID = *partyID
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for posting "+headerID, err)
	}

	return mapping.ToDomainGLLineSlice(lines), nil
}

// FindReversalOf returns the reversal header for the given header, or
// ErrNotFound when none exists.
func (r *PgxLedgerRepository) FindReversalOf(ctx context.Context, headerID string) (*domain.GLHeader, error) {
	query := `SELECT ` + headerColumns + ` FROM gl_headers WHERE reverses_header_id = $1;`

	m, err := scanHeader(r.Pool.QueryRow(ctx, query, headerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find reversal of posting "+headerID, err)
	}

	header := mapping.ToDomainGLHeader(*m)
	return &header, nil
}

// ListHeadersByOrganization retrieves a paginated list of posting headers
// using token-based pagination. Ordering is posting_date DESC with created_at
// DESC as a stable tie-breaker.
func (r *PgxLedgerRepository) ListHeadersByOrganization(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.GLHeader, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to learn whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + headerColumns + ` FROM gl_headers WHERE organization_id = $1`
	orderByClause := `ORDER BY posting_date DESC, created_at DESC`

	args := []any{organizationID}
	query := baseQuery
	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (posting_date, created_at) < ($2, $3)`
		args = append(args, lastDate, lastCreatedAt)
	}
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query postings for organization "+organizationID, err)
	}
	defer rows.Close()

	modelHeaders := make([]models.GLHeader, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanHeader(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan posting header row", scanErr)
		}
		modelHeaders = append(modelHeaders, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating posting header rows", err)
	}

	var nextTokenVal *string
	results := modelHeaders
	if len(modelHeaders) > limit {
		last := modelHeaders[limit-1]
		token := pagination.EncodeToken(last.PostingDate, last.CreatedAt)
		nextTokenVal = &token
		results = modelHeaders[:limit]
	}

	headers := make([]domain.GLHeader, len(results))
	for i, m := range results {
		headers[i] = mapping.ToDomainGLHeader(m)
	}
	return headers, nextTokenVal, nil
}

// FindUnbalancedHeaders returns headers whose stored totals disagree with the
// live sum of their lines, or whose own totals are unequal. The aggregation
// runs entirely in the database so the sweep never loads whole ledgers.
func (r *PgxLedgerRepository) FindUnbalancedHeaders(ctx context.Context, organizationID string, limit int) ([]domain.HeaderIssue, error) {
	query := `
		SELECT h.header_id, h.total_debit, h.total_credit,
		       COALESCE(SUM(l.debit), 0) AS line_debit_sum,
		       COALESCE(SUM(l.credit), 0) AS line_credit_sum
		FROM gl_headers h
		LEFT JOIN gl_lines l ON l.header_id = h.header_id
		WHERE h.organization_id = $1
		GROUP BY h.header_id, h.total_debit, h.total_credit
		HAVING h.total_debit <> h.total_credit
		    OR h.total_debit <> COALESCE(SUM(l.debit), 0)
		    OR h.total_credit <> COALESCE(SUM(l.credit), 0)
		ORDER BY h.header_id
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query unbalanced headers for organization "+organizationID, err)
	}
	defer rows.Close()

	issues := []domain.HeaderIssue{}
	for rows.Next() {
		var issue domain.HeaderIssue
		if scanErr := rows.Scan(
			&issue.HeaderID,
			&issue.TotalDebit,
			&issue.TotalCredit,
			&issue.LineDebitSum,
			&issue.LineCreditSum,
		); scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan unbalanced header row", scanErr)
		}
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating unbalanced header rows", err)
	}

	return issues, nil
}

// FindMalformedLines returns lines where debit and credit are both positive
// or both zero.
func (r *PgxLedgerRepository) FindMalformedLines(ctx context.Context, organizationID string, limit int) ([]domain.LineIssue, error) {
	query := `
		SELECT l.line_id, l.header_id, l.line_number, l.debit, l.credit
		FROM gl_lines l
		JOIN gl_headers h ON l.header_id = h.header_id
		WHERE h.organization_id = $1
		  AND ((l.debit > 0 AND l.credit > 0) OR (l.debit = 0 AND l.credit = 0))
		ORDER BY l.header_id, l.line_number
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query malformed lines for organization "+organizationID, err)
	}
	defer rows.Close()

	issues := []domain.LineIssue{}
	for rows.Next() {
		var issue domain.LineIssue
		if scanErr := rows.Scan(
			&issue.LineID,
			&issue.HeaderID,
			&issue.LineNumber,
			&issue.Debit,
			&issue.Credit,
		); scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan malformed line row", scanErr)
		}
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating malformed line rows", err)
	}

	return issues, nil
}
