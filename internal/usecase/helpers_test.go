package usecase

import (
	"context"
	"testing"
	"time"

	"boxing-booking/internal/data/entity"
	"boxing-booking/internal/data/memstore"
	"boxing-booking/internal/data/repository"
	"boxing-booking/internal/dto/request"
	"boxing-booking/internal/notify"
	"boxing-booking/pkg/utils"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// 2026-03-10 is a Tuesday; "tomorrow" below is 2026-03-11.
var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

const (
	today    = "2026-03-10"
	tomorrow = "2026-03-11"
)

type mockDispatcher struct {
	mock.Mock
}

func (m *mockDispatcher) Dispatch(ctx context.Context, ev notify.Event) {
	m.Called(ctx, ev)
}

type fixture struct {
	repo       *repository.Repository
	svc        *Service
	dispatcher *mockDispatcher
	now        time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo:       memstore.New(),
		dispatcher: &mockDispatcher{},
		now:        testNow,
	}
	f.dispatcher.On("Dispatch", mock.Anything, mock.Anything).Return()

	opts := DefaultOptions()
	opts.Clock = utils.ClockFunc(func() time.Time { return f.now })
	opts.Location = time.UTC
	f.svc = NewService(f.repo, f.dispatcher, opts, zap.NewNop())
	return f
}

func (f *fixture) seedGym(t *testing.T, userID string, status entity.GymStatus, city string) *entity.Gym {
	t.Helper()
	gym := &entity.Gym{
		GymID:     utils.GenerateGymID(),
		UserID:    userID,
		Name:      "Gym " + userID,
		Address:   "1 Ring Road",
		Latitude:  51.5,
		Longitude: -0.12,
		Phone:     "555-0100",
		Status:    status,
	}
	if city != "" {
		gym.City = &city
	}
	require.NoError(t, f.repo.Gym.Create(context.Background(), gym))
	return gym
}

func (f *fixture) seedBoxer(t *testing.T, userID, nickname string) *entity.Boxer {
	t.Helper()
	boxer := &entity.Boxer{
		BoxerID:   utils.GenerateBoxerID(),
		UserID:    userID,
		Nickname:  nickname,
		Gender:    entity.GenderMale,
		Birthdate: "2000-06-15",
		Height:    180,
		Weight:    75,
	}
	require.NoError(t, f.repo.Boxer.Create(context.Background(), boxer))
	return boxer
}

func slotFields(date, start, end string, max int) request.SlotFields {
	return request.SlotFields{Date: date, StartTime: start, EndTime: end, MaxBoxers: &max}
}

func (f *fixture) publish(t *testing.T, gymUser, date, start, end string, max int) string {
	t.Helper()
	resp, err := f.svc.Slot.Publish(context.Background(), gymUser, &request.PublishSlotRequest{SlotFields: slotFields(date, start, end, max)})
	require.NoError(t, err)
	return resp.SlotID
}

func (f *fixture) slot(t *testing.T, slotID string) *entity.Slot {
	t.Helper()
	slot, err := f.repo.Slot.FindByID(context.Background(), slotID)
	require.NoError(t, err)
	require.NotNil(t, slot)
	return slot
}
