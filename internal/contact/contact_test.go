package contact

import (
	"context"
	"errors"
	"testing"

	"github.com/PartyAppOfficial/Partyapp/internal/notify"
	"github.com/PartyAppOfficial/Partyapp/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSender struct{ mock.Mock }

func (m *MockSender) SendContactMessage(ctx context.Context, msg Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func TestSubmit_Delivers(t *testing.T) {
	ctx := context.Background()
	sender := new(MockSender)
	svc := NewService(sender, logger.NewNop())

	want := Message{Name: "Ana", Email: "ana@example.com", Subject: "Hola", Message: "¿Tienen plan anual?"}
	sender.On("SendContactMessage", ctx, want).Return(nil)

	n, err := svc.Submit(ctx, Message{Name: " Ana ", Email: "ana@example.com", Subject: "Hola", Message: "¿Tienen plan anual?\n"})
	require.NoError(t, err)
	assert.Equal(t, notify.KindSuccess, n.Kind)
	assert.Equal(t, MsgSent, n.Message)
	sender.AssertExpectations(t)
}

func TestSubmit_Invalid(t *testing.T) {
	sender := new(MockSender)
	svc := NewService(sender, logger.NewNop())

	_, err := svc.Submit(context.Background(), Message{Name: "Ana", Email: "not-mail", Subject: "", Message: "hi"})

	require.ErrorIs(t, err, ErrInvalidMessage)
	var inv *InvalidError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "Invalid email address", inv.Fields["email"])
	assert.Equal(t, "This field is required", inv.Fields["subject"])
	sender.AssertNotCalled(t, "SendContactMessage", mock.Anything, mock.Anything)
}

func TestSubmit_DeliveryFailure(t *testing.T) {
	sender := new(MockSender)
	svc := NewService(sender, logger.NewNop())
	sender.On("SendContactMessage", mock.Anything, mock.Anything).Return(errors.New("dial tcp: connection refused"))

	n, err := svc.Submit(context.Background(), Message{Name: "Ana", Email: "ana@example.com", Subject: "Hola", Message: "hi"})

	assert.ErrorIs(t, err, ErrDelivery)
	assert.Equal(t, notify.Error(MsgFailed), n)
}

func TestSubmit_NoTransport(t *testing.T) {
	svc := NewService(nil, logger.NewNop())

	n, err := svc.Submit(context.Background(), Message{Name: "Ana", Email: "ana@example.com", Subject: "Hola", Message: "Hola"})
	assert.ErrorIs(t, err, ErrDelivery)
	assert.Equal(t, MsgFailed, n.Message)
}
