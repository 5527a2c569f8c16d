package listeners

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/basshamut/gruastremart-core-api/internal/entities"
	"github.com/basshamut/gruastremart-core-api/internal/events"
	"github.com/basshamut/gruastremart-core-api/pkg/config"
	"github.com/basshamut/gruastremart-core-api/pkg/constants"
	apperrors "github.com/basshamut/gruastremart-core-api/pkg/errors"
)

type sentEmail struct {
	Kind  string
	Email string
	State string
}

type recordingEmailService struct {
	sent []sentEmail
}

func (s *recordingEmailService) SendDemandAcknowledgementEmail(ctx context.Context, name, email string) error {
	s.sent = append(s.sent, sentEmail{Kind: "ack", Email: email})
	return nil
}

func (s *recordingEmailService) SendDemandAssignedEmail(ctx context.Context, creatorName, creatorEmail string) error {
	s.sent = append(s.sent, sentEmail{Kind: "assigned", Email: creatorEmail})
	return nil
}

func (s *recordingEmailService) SendDemandStateChangedEmail(ctx context.Context, name, email, state string) error {
	s.sent = append(s.sent, sentEmail{Kind: "state", Email: email, State: state})
	return nil
}

type nullTracker struct{}

func (nullTracker) PublishOperatorPosition(demandID, operatorID string, lat, lng float64, status string, reportedAt time.Time) error {
	return nil
}

func (nullTracker) PublishDemandEvent(demandID, state, description string) error { return nil }
func (nullTracker) BroadcastNewDemand(demandID, description string) error       { return nil }

type staticUserRepo struct {
	user *entities.User
}

func (r *staticUserRepo) FindByID(ctx context.Context, id string) (*entities.User, error) {
	if r.user != nil && r.user.ID == id {
		return r.user, nil
	}
	return nil, apperrors.NewNotFoundError("user not found")
}

func (r *staticUserRepo) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	if r.user != nil && r.user.Email == email {
		return r.user, nil
	}
	return nil, apperrors.NewNotFoundError("user not found")
}

func fixtures() (*entities.User, entities.CraneDemand) {
	creator := &entities.User{ID: "client-1", Email: "client@example.com", Name: "Carmen", Role: "CLIENT"}
	demand := entities.CraneDemand{
		ID:              "demand-1",
		Description:     "needs towing",
		State:           constants.DemandStateActive,
		CreatedByUserID: creator.ID,
	}
	return creator, demand
}

func newListenerForTest(email *recordingEmailService, userRepo *staticUserRepo, cfg config.NotificationConfig) *NotificationListener {
	return NewNotificationListener(email, nullTracker{}, userRepo, cfg, zap.NewNop())
}

func TestNotificationListener_DemandCreatedSendsAcknowledgement(t *testing.T) {
	creator, demand := fixtures()
	email := &recordingEmailService{}
	listener := newListenerForTest(email, &staticUserRepo{user: creator}, config.NotificationConfig{})

	err := listener.onDemandCreated(context.Background(), events.DemandCreatedEvent{Demand: demand, Creator: *creator})
	require.NoError(t, err)

	require.Len(t, email.sent, 1)
	assert.Equal(t, "ack", email.sent[0].Kind)
	assert.Equal(t, creator.Email, email.sent[0].Email)
}

func TestNotificationListener_DemandAssignedMailsCreator(t *testing.T) {
	creator, demand := fixtures()
	demand.State = constants.DemandStateTaken
	operator := entities.User{ID: "operator-1", Email: "op@example.com", Name: "Oscar", Role: "OPERATOR"}
	email := &recordingEmailService{}
	listener := newListenerForTest(email, &staticUserRepo{user: creator}, config.NotificationConfig{})

	err := listener.onDemandAssigned(context.Background(), events.DemandAssignedEvent{
		Demand: demand, Creator: *creator, Operator: operator,
	})
	require.NoError(t, err)

	require.Len(t, email.sent, 1)
	assert.Equal(t, "assigned", email.sent[0].Kind)
	assert.Equal(t, creator.Email, email.sent[0].Email)
}

func TestNotificationListener_StateChangeMailGating(t *testing.T) {
	testCases := []struct {
		name     string
		state    string
		cfg      config.NotificationConfig
		wantMail bool
	}{
		{name: "cancel off by default", state: constants.DemandStateCancelled, wantMail: false},
		{name: "cancel enabled", state: constants.DemandStateCancelled, cfg: config.NotificationConfig{NotifyOnCancel: true}, wantMail: true},
		{name: "complete off by default", state: constants.DemandStateCompleted, wantMail: false},
		{name: "complete enabled", state: constants.DemandStateCompleted, cfg: config.NotificationConfig{NotifyOnComplete: true}, wantMail: true},
		{name: "inactive never mails", state: constants.DemandStateInactive, cfg: config.NotificationConfig{NotifyOnCancel: true, NotifyOnComplete: true}, wantMail: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			creator, demand := fixtures()
			demand.State = tc.state
			email := &recordingEmailService{}
			listener := newListenerForTest(email, &staticUserRepo{user: creator}, tc.cfg)

			err := listener.onDemandStateChanged(context.Background(), events.DemandStateChangedEvent{
				Demand: demand, PreviousState: constants.DemandStateTaken,
			})
			require.NoError(t, err)

			if tc.wantMail {
				require.Len(t, email.sent, 1)
				assert.Equal(t, "state", email.sent[0].Kind)
				assert.Equal(t, tc.state, email.sent[0].State)
				assert.Equal(t, creator.Email, email.sent[0].Email)
			} else {
				assert.Empty(t, email.sent)
			}
		})
	}
}

func TestNotificationListener_RejectsForeignPayload(t *testing.T) {
	creator, _ := fixtures()
	listener := newListenerForTest(&recordingEmailService{}, &staticUserRepo{user: creator}, config.NotificationConfig{})

	err := listener.onDemandCreated(context.Background(), events.DemandStateChangedEvent{})
	require.Error(t, err)
}
