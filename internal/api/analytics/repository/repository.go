package analyticsRepository

import (
	"context"

	"SafeDrive/internal/entity"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type SQLExecutor interface {
	sqlx.ExtContext
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Analytics: &analyticsRepository{q: sqlExecutor, log: r.log},
		Commit:    commitFunc,
		Rollback:  rollbackFunc,
	}, nil
}

type Client struct {
	Analytics interface {
		DeleteWhere(ctx context.Context, table string, conditions []entity.FilterCondition) (int64, error)
		CountRows(ctx context.Context, table string) (int64, error)
		GetDailyAnalytics(ctx context.Context, days int) ([]entity.DailyAnalytics, error)
	}

	Commit   func() error
	Rollback func() error
}

type analyticsRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
