package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/army-personnel-api/internal/models"
	"github.com/noah-isme/army-personnel-api/pkg/database"
)

const (
	defaultPersonnelPageSize = 50
	maxPersonnelPageSize     = 200
	armyIDConstraint         = "personnel_army_id_key"
)

const personnelSelect = `SELECT p.id, p.army_id, p.first_name, p.last_name, p.current_rank_id, p.total_points,
p.special_position_id, p.is_active, p.join_date, p.created_at, p.updated_at,
r.level AS rank_level, r.name AS rank_name, r.points_required AS rank_points_required,
r.points_from_previous AS rank_points_from_previous,
sp.name AS sp_name, sp.difficulty AS sp_difficulty, sp.bonus_points_per_week AS sp_bonus, sp.description AS sp_description
FROM personnel p
JOIN ranks r ON r.id = p.current_rank_id
LEFT JOIN special_positions sp ON sp.id = p.special_position_id`

const personnelOrder = ` ORDER BY p.last_name ASC, p.first_name ASC, p.id ASC`

type personnelRow struct {
	models.Personnel
	RankLevel              int            `db:"rank_level"`
	RankName               string         `db:"rank_name"`
	RankPointsRequired     int            `db:"rank_points_required"`
	RankPointsFromPrevious int            `db:"rank_points_from_previous"`
	SPName                 sql.NullString `db:"sp_name"`
	SPDifficulty           sql.NullString `db:"sp_difficulty"`
	SPBonus                sql.NullInt64  `db:"sp_bonus"`
	SPDescription          sql.NullString `db:"sp_description"`
}

func (row personnelRow) detail() models.PersonnelDetail {
	d := models.PersonnelDetail{
		Personnel: row.Personnel,
		CurrentRank: &models.Rank{
			ID:                 row.CurrentRankID,
			Level:              row.RankLevel,
			Name:               row.RankName,
			PointsRequired:     row.RankPointsRequired,
			PointsFromPrevious: row.RankPointsFromPrevious,
		},
	}
	if row.SpecialPositionID != nil && row.SPName.Valid {
		sp := &models.SpecialPosition{
			ID:                 *row.SpecialPositionID,
			Name:               row.SPName.String,
			Difficulty:         row.SPDifficulty.String,
			BonusPointsPerWeek: int(row.SPBonus.Int64),
		}
		if row.SPDescription.Valid {
			desc := row.SPDescription.String
			sp.Description = &desc
		}
		d.SpecialPosition = sp
	}
	return d
}

// PersonnelRepository manages the member registry.
type PersonnelRepository struct {
	db *sqlx.DB
}

// NewPersonnelRepository constructs a personnel repository.
func NewPersonnelRepository(db *sqlx.DB) *PersonnelRepository {
	return &PersonnelRepository{db: db}
}

func personnelConditions(filter models.PersonnelFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.Active != nil {
		args = append(args, *filter.Active)
		conditions = append(conditions, fmt.Sprintf("p.is_active = $%d", len(args)))
	}
	if filter.RankID != nil {
		args = append(args, *filter.RankID)
		conditions = append(conditions, fmt.Sprintf("p.current_rank_id = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(LOWER(p.army_id) LIKE $%d OR LOWER(p.first_name) LIKE $%d OR LOWER(p.last_name) LIKE $%d)", n, n, n))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// List returns a page of members joined with rank and special position, plus the total count.
func (r *PersonnelRepository) List(ctx context.Context, filter models.PersonnelFilter) ([]models.PersonnelDetail, int, error) {
	where, args := personnelConditions(filter)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = defaultPersonnelPageSize
	}
	if pageSize > maxPersonnelPageSize {
		pageSize = maxPersonnelPageSize
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("%s%s%s LIMIT %d OFFSET %d", personnelSelect, where, personnelOrder, pageSize, offset)
	var rows []personnelRow
	if err := r.db.SelectContext(ctx, &rows, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list personnel: %w", err)
	}

	countQuery := "SELECT COUNT(*) FROM personnel p" + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count personnel: %w", err)
	}

	return toDetails(rows), total, nil
}

// ListAll returns every member matching filter without pagination.
func (r *PersonnelRepository) ListAll(ctx context.Context, filter models.PersonnelFilter) ([]models.PersonnelDetail, error) {
	where, args := personnelConditions(filter)
	var rows []personnelRow
	if err := r.db.SelectContext(ctx, &rows, personnelSelect+where+personnelOrder, args...); err != nil {
		return nil, fmt.Errorf("list all personnel: %w", err)
	}
	return toDetails(rows), nil
}

// FindByID returns one member with joined reference data.
func (r *PersonnelRepository) FindByID(ctx context.Context, id int64) (*models.PersonnelDetail, error) {
	return r.findOne(ctx, "p.id = $1", id)
}

// FindByArmyID returns one member by external army id.
func (r *PersonnelRepository) FindByArmyID(ctx context.Context, armyID string) (*models.PersonnelDetail, error) {
	return r.findOne(ctx, "p.army_id = $1", armyID)
}

func (r *PersonnelRepository) findOne(ctx context.Context, cond string, arg interface{}) (*models.PersonnelDetail, error) {
	var row personnelRow
	if err := r.db.GetContext(ctx, &row, personnelSelect+" WHERE "+cond, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find personnel: %w", err)
	}
	d := row.detail()
	return &d, nil
}

// ExistsByArmyID reports whether the army id is taken.
func (r *PersonnelRepository) ExistsByArmyID(ctx context.Context, armyID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM personnel WHERE army_id = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, armyID); err != nil {
		return false, fmt.Errorf("check army id: %w", err)
	}
	return exists, nil
}

// Create inserts a member with zero points and fills the generated id.
func (r *PersonnelRepository) Create(ctx context.Context, p *models.Personnel) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.TotalPoints = 0
	if p.JoinDate.IsZero() {
		p.JoinDate = now
	}

	const query = `INSERT INTO personnel (army_id, first_name, last_name, current_rank_id, total_points, special_position_id, is_active, join_date, created_at, updated_at)
VALUES ($1, $2, $3, $4, 0, $5, $6, $7, $8, $9) RETURNING id`
	err := r.db.QueryRowxContext(ctx, query,
		p.ArmyID, p.FirstName, p.LastName, p.CurrentRankID, p.SpecialPositionID, p.IsActive, p.JoinDate, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		if database.IsUniqueViolation(err, armyIDConstraint) {
			return ErrArmyIDTaken
		}
		return fmt.Errorf("create personnel: %w", err)
	}
	return nil
}

// Update applies the non-nil fields of upd. It returns sql.ErrNoRows when the member does not exist.
func (r *PersonnelRepository) Update(ctx context.Context, id int64, upd models.PersonnelUpdate) error {
	sets := []string{}
	args := []interface{}{id}
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.FirstName != nil {
		add("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		add("last_name", *upd.LastName)
	}
	if upd.SetSpecialPosition {
		add("special_position_id", upd.SpecialPositionID)
	}
	if upd.IsActive != nil {
		add("is_active", *upd.IsActive)
	}
	add("updated_at", time.Now().UTC())

	query := fmt.Sprintf("UPDATE personnel SET %s WHERE id = $1", strings.Join(sets, ", "))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update personnel: %w", err)
	}
	return requireAffected(res)
}

// Deactivate marks a member inactive. Members are never hard-deleted.
func (r *PersonnelRepository) Deactivate(ctx context.Context, id int64) error {
	const query = `UPDATE personnel SET is_active = FALSE, updated_at = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate personnel: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func toDetails(rows []personnelRow) []models.PersonnelDetail {
	out := make([]models.PersonnelDetail, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.detail())
	}
	return out
}
