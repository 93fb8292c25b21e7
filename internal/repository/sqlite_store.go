package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskmanager/internal/domain"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRow struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"not null;uniqueIndex"`
	Email        string `gorm:"not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
}

func (userRow) TableName() string { return "users" }

type taskRow struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Title       string `gorm:"not null"`
	Description *string
	DueDate     *time.Time
	Completed   bool    `gorm:"not null;default:false"`
	UserID      int64   `gorm:"not null;index"`
	User        userRow `gorm:"foreignKey:UserID;references:ID"`
}

func (taskRow) TableName() string { return "tasks" }

func (r taskRow) toDomain() domain.Task {
	return domain.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		DueDate:     domain.InUTC(r.DueDate),
		Completed:   r.Completed,
		UserID:      r.UserID,
	}
}

// SQLiteStore is the gorm-backed Store used for file and in-memory SQLite
// databases.
type SQLiteStore struct {
	db    *gorm.DB
	tasks *GormTaskRepository
	users *GormUserRepository
}

func NewSQLiteStore(db *gorm.DB) *SQLiteStore {
	return &SQLiteStore{
		db:    db,
		tasks: &GormTaskRepository{db: db},
		users: &GormUserRepository{db: db},
	}
}

func (s *SQLiteStore) Tasks() TaskStore { return s.tasks }
func (s *SQLiteStore) Users() UserStore { return s.users }

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&userRow{}, &taskRow{}); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Schema returns the DDL AutoMigrate produces, read back from a scratch
// in-memory database so the configured one is left untouched.
func (s *SQLiteStore) Schema(ctx context.Context) (string, error) {
	scratch, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=1"), &gorm.Config{Logger: s.db.Logger})
	if err != nil {
		return "", fmt.Errorf("open scratch db: %w", err)
	}
	sqlDB, err := scratch.DB()
	if err != nil {
		return "", fmt.Errorf("open scratch db: %w", err)
	}
	defer sqlDB.Close()
	sqlDB.SetMaxOpenConns(1)

	if err := scratch.WithContext(ctx).AutoMigrate(&userRow{}, &taskRow{}); err != nil {
		return "", fmt.Errorf("migrate scratch db: %w", err)
	}
	return dumpSQLiteSchema(ctx, scratch)
}

// dumpSQLiteSchema lists the stored CREATE statements in creation order.
func dumpSQLiteSchema(ctx context.Context, db *gorm.DB) (string, error) {
	var stmts []string
	err := db.WithContext(ctx).
		Table("sqlite_master").
		Where("sql IS NOT NULL AND name NOT LIKE 'sqlite_%'").
		Order("rowid").
		Pluck("sql", &stmts).Error
	if err != nil {
		return "", fmt.Errorf("read schema: %w", err)
	}
	return strings.Join(stmts, ";\n\n") + ";\n", nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type GormTaskRepository struct {
	db *gorm.DB
}

func (r *GormTaskRepository) Insert(ctx context.Context, t *domain.Task) (int64, error) {
	row := taskRow{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     domain.InUTC(t.DueDate),
		Completed:   false,
		UserID:      t.UserID,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error; err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}
	return row.ID, nil
}

func (r *GormTaskRepository) List(ctx context.Context) ([]domain.Task, error) {
	var rows []taskRow
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	res := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		res = append(res, row.toDomain())
	}
	return res, nil
}

func (r *GormTaskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	var row taskRow
	err := r.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	t := row.toDomain()
	return &t, nil
}

func (r *GormTaskRepository) Update(ctx context.Context, id int64, p domain.TaskPatch) (*domain.Task, error) {
	values := map[string]any{}
	if p.Title != nil {
		values["title"] = *p.Title
	}
	if p.Description.Set {
		values["description"] = p.Description.Ptr()
	}
	if p.DueDate.Set {
		values["due_date"] = domain.InUTC(p.DueDate.Ptr())
	}
	if p.Completed != nil {
		values["completed"] = *p.Completed
	}

	if len(values) > 0 {
		err := r.db.WithContext(ctx).Model(&taskRow{}).Where("id = ?", id).Updates(values).Error
		if err != nil {
			return nil, fmt.Errorf("update task %d: %w", id, err)
		}
	}

	return r.GetByID(ctx, id)
}

func (r *GormTaskRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&taskRow{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete task %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

type GormUserRepository struct {
	db *gorm.DB
}

func (r *GormUserRepository) Create(ctx context.Context, u *domain.User) error {
	row := userRow{Username: u.Username, Email: u.Email, PasswordHash: u.PasswordHash}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	u.ID = row.ID
	return nil
}

func (r *GormUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var row userRow
	err := r.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &domain.User{ID: row.ID, Username: row.Username, Email: row.Email, PasswordHash: row.PasswordHash}, nil
}

// EnsureDefault inserts u under its explicit id. Only an existing row with
// that id is tolerated; a username or email taken by another id is an error.
func (r *GormUserRepository) EnsureDefault(ctx context.Context, u *domain.User) error {
	row := userRow{ID: u.ID, Username: u.Username, Email: u.Email, PasswordHash: u.PasswordHash}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("ensure default user %d: %w", u.ID, err)
	}
	if _, err := r.GetByID(ctx, u.ID); err != nil {
		return fmt.Errorf("ensure default user %d: %w", u.ID, err)
	}
	return nil
}
