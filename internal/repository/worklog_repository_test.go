package repository

import (
	"context"
	"testing"
	"time"

	"github.com/employeest/employeest-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"
)

func TestWorkLogRepository_ListOrderAndFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewWorkLogRepository(db)
	ctx := context.Background()

	dev := seedUser(t, db, "dev", models.RoleEmployee)
	other := seedUser(t, db, "other", models.RoleEmployee)
	project := seedProject(t, db, dev.ID, "Apollo")

	day := func(d int) time.Time { return time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC) }
	create := func(userID uint64, date time.Time) *models.WorkLog {
		log := &models.WorkLog{UserID: userID, ProjectID: &project.ID, Date: date, HoursSpent: 2}
		require.NoError(t, db.Omit(clause.Associations).Create(log).Error)
		return log
	}

	first := create(dev.ID, day(1))
	sameDayEarlier := create(dev.ID, day(3))
	sameDayLater := create(dev.ID, day(3))
	create(other.ID, day(2))

	logs, total, err := repo.List(ctx, WorkLogFilter{UserID: &dev.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, logs, 3)
	assert.Equal(t, []uint64{sameDayLater.ID, sameDayEarlier.ID, first.ID}, []uint64{logs[0].ID, logs[1].ID, logs[2].ID})

	after, before := day(2), day(3)
	logs, total, err = repo.List(ctx, WorkLogFilter{DateAfter: &after, DateBefore: &before})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, logs, 3)
}
