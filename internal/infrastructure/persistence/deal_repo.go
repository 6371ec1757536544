package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"at_deals/internal/domain"
	"at_deals/internal/domain/entity"
	"at_deals/internal/domain/value"
	"at_deals/pkg/errcodes"
	"at_deals/pkg/lox"
)

type DealRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewDealRepository создаёт репозиторий сделок.
func NewDealRepository(db *sqlx.DB) *DealRepository {
	return &DealRepository{db: db, now: time.Now}
}

// withTx выполняет функцию в транзакции; ошибки получают код PersistenceError.
func (r *DealRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.PersistenceError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.PersistenceError,
				"transaction failed",
			)
		}
		if domain.IsAppError(err) {
			return err
		}
		return domain.WrapError(err, errcodes.PersistenceError, "transaction failed")
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.PersistenceError, "failed to commit")
	}

	return nil
}

// lockKey берёт транзакционную advisory-блокировку на ключ (site, id):
// писатели одного ключа выполняются строго по очереди.
func lockKey(ctx context.Context, tx *sqlx.Tx, site value.SourceSite, sourceID string) error {
	if _, err := tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`,
		string(site)+"\x1f"+sourceID,
	); err != nil {
		return fmt.Errorf("pg_advisory_xact_lock: %w", err)
	}

	return nil
}

// Apply записывает решение планировщика. Skip ничего не делает, TouchOnly
// обновляет только last_seen_at, Insert и UpdateContent пишут всё содержимое
// вместе с raw_payload.
func (r *DealRepository) Apply(ctx context.Context, action value.Action, deal *entity.Deal) error {
	switch action {
	case value.ActionSkip:
		return nil
	case value.ActionTouchOnly:
		return r.withTx(ctx, func(tx *sqlx.Tx) error {
			if err := lockKey(ctx, tx, deal.SourceSite, deal.SourceID); err != nil {
				return err
			}
			return r.touchTx(ctx, tx, deal)
		})
	case value.ActionInsert, value.ActionUpdateContent:
		return r.withTx(ctx, func(tx *sqlx.Tx) error {
			if err := lockKey(ctx, tx, deal.SourceSite, deal.SourceID); err != nil {
				return err
			}
			return r.upsertTx(ctx, tx, deal)
		})
	default:
		return domain.NewError(errcodes.PersistenceError, "unknown action "+action.String())
	}
}

func (r *DealRepository) touchTx(ctx context.Context, tx *sqlx.Tx, deal *entity.Deal) error {
	seenAt := deal.LastSeenAt
	if seenAt.IsZero() {
		seenAt = r.now()
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE deals
		SET last_seen_at = GREATEST(last_seen_at, $1)
		WHERE source_site = $2 AND source_id = $3`,
		seenAt, string(deal.SourceSite), deal.SourceID,
	)
	if err != nil {
		return fmt.Errorf("touch: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("RowsAffected: %w", err)
	}
	if n == 0 {
		return domain.NewError(errcodes.DealNotFound, "deal to touch not found")
	}

	deal.LastSeenAt = seenAt

	return nil
}

// upsertTx пишет полную строку. created_at сохраняется при конфликте.
func (r *DealRepository) upsertTx(ctx context.Context, tx *sqlx.Tx, deal *entity.Deal) error {
	if deal.LastSeenAt.IsZero() {
		deal.LastSeenAt = r.now()
	}

	schema, err := dealSchemaFrom(deal)
	if err != nil {
		return domain.WrapError(err, errcodes.InvalidRecord, "failed to encode deal")
	}

	query := `
		INSERT INTO deals (
			source_site, source_id, title_de, title_zh, body_de, body_zh,
			merchant_canonical_name, merchant_logo_url, categories,
			price_current, price_original, published_at, expires_at,
			source_url, image_url, raw_payload, content_fingerprint,
			translation_provider, last_seen_at
		) VALUES (
			:source_site, :source_id, :title_de, :title_zh, :body_de, :body_zh,
			:merchant_canonical_name, :merchant_logo_url, :categories,
			:price_current, :price_original, :published_at, :expires_at,
			:source_url, :image_url, :raw_payload, :content_fingerprint,
			:translation_provider, :last_seen_at
		)
		ON CONFLICT (source_site, source_id) DO UPDATE SET
			title_de                = EXCLUDED.title_de,
			title_zh                = EXCLUDED.title_zh,
			body_de                 = EXCLUDED.body_de,
			body_zh                 = EXCLUDED.body_zh,
			merchant_canonical_name = EXCLUDED.merchant_canonical_name,
			merchant_logo_url       = EXCLUDED.merchant_logo_url,
			categories              = EXCLUDED.categories,
			price_current           = EXCLUDED.price_current,
			price_original          = EXCLUDED.price_original,
			published_at            = EXCLUDED.published_at,
			expires_at              = EXCLUDED.expires_at,
			source_url              = EXCLUDED.source_url,
			image_url               = EXCLUDED.image_url,
			raw_payload             = EXCLUDED.raw_payload,
			content_fingerprint     = EXCLUDED.content_fingerprint,
			translation_provider    = EXCLUDED.translation_provider,
			last_seen_at            = GREATEST(deals.last_seen_at, EXCLUDED.last_seen_at),
			updated_at              = now()
		RETURNING id, discount_percent, created_at, updated_at`

	query, args, err := sqlx.Named(query, schema)
	if err != nil {
		return fmt.Errorf("sqlx.Named: %w", err)
	}

	var out struct {
		ID              int64     `db:"id"`
		DiscountPercent int       `db:"discount_percent"`
		CreatedAt       time.Time `db:"created_at"`
		UpdatedAt       time.Time `db:"updated_at"`
	}
	if err := tx.GetContext(ctx, &out, tx.Rebind(query), args...); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}

	deal.ID = out.ID
	deal.DiscountPercent = out.DiscountPercent
	deal.CreatedAt = out.CreatedAt
	deal.UpdatedAt = out.UpdatedAt

	return nil
}

// FindByKeys возвращает сохранённые сделки сайта по source_id.
func (r *DealRepository) FindByKeys(
	ctx context.Context,
	site value.SourceSite,
	sourceIDs []string,
) (map[string]*entity.Deal, error) {
	if len(sourceIDs) == 0 {
		return map[string]*entity.Deal{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT `+dealColumns+`
		FROM deals
		WHERE source_site = ? AND source_id IN (?)`, string(site), sourceIDs)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.PersistenceError, "failed to build query")
	}

	var schemas []dealSchema
	if err := r.db.SelectContext(ctx, &schemas, r.db.Rebind(query), args...); err != nil {
		return nil, domain.WrapError(err, errcodes.PersistenceError, "failed to find deals")
	}

	deals := make(map[string]*entity.Deal, len(schemas))
	for _, s := range schemas {
		deal, err := s.toDomain()
		if err != nil {
			return nil, domain.WrapError(err, errcodes.PersistenceError, "failed to convert deal")
		}
		deals[deal.SourceID] = deal
	}

	return deals, nil
}

// GetByID возвращает сделку по идентификатору.
func (r *DealRepository) GetByID(ctx context.Context, id int64) (*entity.Deal, error) {
	var schema dealSchema
	if err := r.db.GetContext(ctx, &schema, `SELECT `+dealColumns+` FROM deals WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.DealNotFound, "deal not found")
		}
		return nil, domain.WrapError(err, errcodes.PersistenceError, "failed to get deal")
	}

	deal, err := schema.toDomain()
	if err != nil {
		return nil, domain.WrapError(err, errcodes.PersistenceError, "failed to convert deal")
	}

	return deal, nil
}

// List возвращает страницу сделок (новые первыми) и общее число подходящих строк.
func (r *DealRepository) List(ctx context.Context, filter entity.DealFilter) ([]*entity.Deal, int, error) {
	where, args := listWhere(filter)

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM deals`+where, args...); err != nil {
		return nil, 0, domain.WrapError(err, errcodes.PersistenceError, "failed to count deals")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + dealColumns + ` FROM deals` + where +
		` ORDER BY published_at DESC, id DESC` +
		` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, max(filter.Offset, 0))

	var schemas []dealSchema
	if err := r.db.SelectContext(ctx, &schemas, query, args...); err != nil {
		return nil, 0, domain.WrapError(err, errcodes.PersistenceError, "failed to list deals")
	}

	deals, err := lox.MapErr(schemas, dealSchema.toDomain)
	if err != nil {
		return nil, 0, domain.WrapError(err, errcodes.PersistenceError, "failed to convert deal")
	}

	return deals, total, nil
}

func listWhere(filter entity.DealFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Category != "" {
		b, _ := json.Marshal([]string{string(filter.Category)})
		conds = append(conds, "categories @> "+next(string(b))+"::jsonb")
	}
	if filter.Merchant != "" {
		conds = append(conds, "lower(merchant_canonical_name) = lower("+next(filter.Merchant)+")")
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		p := next("%" + escapeLike(q) + "%")
		conds = append(conds, "(title_de ILIKE "+p+" OR title_zh ILIKE "+p+" OR body_de ILIKE "+p+")")
	}

	if len(conds) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Categories возвращает число сделок по каждой категории.
func (r *DealRepository) Categories(ctx context.Context) ([]entity.CategoryCount, error) {
	var schemas []categoryCountSchema
	if err := r.db.SelectContext(ctx, &schemas, `
		SELECT c AS category, COUNT(*) AS count
		FROM deals, jsonb_array_elements_text(categories) AS c
		GROUP BY c
		ORDER BY c`); err != nil {
		return nil, domain.WrapError(err, errcodes.PersistenceError, "failed to count categories")
	}

	return lox.Map(schemas, func(s categoryCountSchema) entity.CategoryCount {
		return entity.CategoryCount{Category: value.Category(s.Category), Count: s.Count}
	}), nil
}

// ListRawPayloads постранично (по возрастанию id) отдаёт сырые payload'ы.
func (r *DealRepository) ListRawPayloads(ctx context.Context, afterID int64, limit int) ([]entity.StoredPayload, error) {
	var schemas []payloadSchema
	if err := r.db.SelectContext(ctx, &schemas, `
		SELECT id, raw_payload, categories
		FROM deals
		WHERE id > $1
		ORDER BY id
		LIMIT $2`, afterID, limit); err != nil {
		return nil, domain.WrapError(err, errcodes.PersistenceError, "failed to list payloads")
	}

	out := make([]entity.StoredPayload, 0, len(schemas))
	for _, s := range schemas {
		var codes []value.Category
		if err := json.Unmarshal(s.Categories, &codes); err != nil {
			return nil, domain.WrapError(err, errcodes.PersistenceError, "failed to decode categories")
		}
		out = append(out, entity.StoredPayload{
			ID:         s.ID,
			RawPayload: s.RawPayload,
			Categories: value.NewCategories(codes...),
		})
	}

	return out, nil
}

// UpdateCategories перезаписывает категории одной сделки.
func (r *DealRepository) UpdateCategories(ctx context.Context, id int64, categories value.Categories) error {
	b, err := json.Marshal(value.NewCategories(categories...).Strings())
	if err != nil {
		return domain.WrapError(err, errcodes.InvalidRecord, "failed to encode categories")
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE deals SET categories = $1::jsonb, updated_at = now() WHERE id = $2`, string(b), id)
	if err != nil {
		return domain.WrapError(err, errcodes.PersistenceError, "failed to update categories")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.PersistenceError, "failed to update categories")
	}
	if n == 0 {
		return domain.NewError(errcodes.DealNotFound, "deal not found")
	}

	return nil
}
