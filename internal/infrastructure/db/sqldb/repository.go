package sqldb

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rackledger/inventory/internal/core/domain"
	"github.com/rackledger/inventory/internal/core/ports"
)

const likeEscape = "!"

// Repository implements ports.Repository for one gorm model.
type Repository[T any] struct {
	db *gorm.DB
	// joins are belongs-to associations loaded with every read.
	joins []string
	// search holds the SQL expressions a list query is matched against.
	search []string
}

var _ ports.Repository[domain.Server] = (*Repository[domain.Server])(nil)

func newRepository[T any](db *gorm.DB, joins, search []string) *Repository[T] {
	return &Repository[T]{db: db, joins: joins, search: search}
}

func NewServerRepository(db *gorm.DB) *Repository[domain.Server] {
	return newRepository[domain.Server](db, []string{"Group", "Project"}, []string{
		`"servers"."ip"`, `"servers"."additional_ip"`, `"servers"."os"`, `"servers"."hoster"`, `"servers"."status"`,
		`"servers"."country"`, `"servers"."comments"`, `"Group"."title"`, `"Project"."title"`,
	})
}

func NewDomainRepository(db *gorm.DB) *Repository[domain.Domain] {
	return newRepository[domain.Domain](db, []string{"Group"}, []string{
		`"domains"."name"`, `"domains"."status"`, `"domains"."ns"`, `"domains"."a_record"`, `"domains"."aaaa_record"`, `"Group"."title"`,
	})
}

func NewProjectRepository(db *gorm.DB) *Repository[domain.Project] {
	return newRepository[domain.Project](db, nil, []string{`"projects"."title"`})
}

func NewGroupRepository(db *gorm.DB) *Repository[domain.Group] {
	return newRepository[domain.Group](db, []string{"Project"}, []string{
		`"groups"."title"`, `"groups"."status"`, `"groups"."description"`, `"Project"."title"`,
	})
}

func NewFinanceRepository(db *gorm.DB) *Repository[domain.Finance] {
	return newRepository[domain.Finance](db, []string{"Server"}, []string{
		`"finance"."account_status"`, `"Server"."ip"`,
	})
}

func (r *Repository[T]) scope(ctx context.Context) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(new(T))
	for _, j := range r.joins {
		tx = tx.Joins(j)
	}
	return tx
}

func (r *Repository[T]) List(ctx context.Context, query string) ([]T, error) {
	tx := r.scope(ctx)
	if query != "" && len(r.search) > 0 {
		pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
		conds := make([]string, len(r.search))
		args := make([]any, len(r.search))
		for i, col := range r.search {
			conds[i] = "LOWER(" + col + ") LIKE ? ESCAPE '" + likeEscape + "'"
			args[i] = pattern
		}
		tx = tx.Where("("+strings.Join(conds, " OR ")+")", args...)
	}

	items := []T{}
	err := tx.Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: "id"}}).
		Find(&items).Error
	if err != nil {
		return nil, translate(err)
	}
	return items, nil
}

func (r *Repository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var out T
	err := r.scope(ctx).
		Where(clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: "id"}, Value: id}).
		Take(&out).Error
	if err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (r *Repository[T]) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

func (r *Repository[T]) Create(ctx context.Context, entity *T) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(entity).Error)
}

// Update writes columns of entity, which must carry its primary key.
func (r *Repository[T]) Update(ctx context.Context, entity *T, columns []string) error {
	if len(columns) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(entity).
		Select(columns).
		Omit(clause.Associations).
		Updates(entity)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_").Replace(s)
}
