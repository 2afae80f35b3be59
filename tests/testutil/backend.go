package testutil

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/nhle/mailpilot/internal/api"
	"github.com/nhle/mailpilot/internal/model"
)

// MockBackend is a testify mock of the dashboard backend. The context
// argument is not passed to the mock so expectations stay short.
type MockBackend struct {
	mock.Mock

	mu    sync.Mutex
	token string
}

// SetToken records the bearer token without registering a call.
func (m *MockBackend) SetToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

// Token returns the last token passed to SetToken.
func (m *MockBackend) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *MockBackend) Me(ctx context.Context) (*model.User, error) {
	args := m.Called()
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *MockBackend) Persona(ctx context.Context) (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockBackend) SavePersona(ctx context.Context, persona string) error {
	return m.Called(persona).Error(0)
}

func (m *MockBackend) Inbox(ctx context.Context) ([]model.EmailHeader, error) {
	args := m.Called()
	emails, _ := args.Get(0).([]model.EmailHeader)
	return emails, args.Error(1)
}

func (m *MockBackend) Email(ctx context.Context, id string) (*model.EmailContent, error) {
	args := m.Called(id)
	content, _ := args.Get(0).(*model.EmailContent)
	return content, args.Error(1)
}

func (m *MockBackend) SummarizeText(ctx context.Context, text string) (string, error) {
	args := m.Called(text)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) SummarizeAttachment(ctx context.Context, messageID string, att model.Attachment) (string, error) {
	args := m.Called(messageID, att)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) SummarizeThread(ctx context.Context, threadID string) (string, error) {
	args := m.Called(threadID)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) GenerateReply(ctx context.Context, prompt string) (string, error) {
	args := m.Called(prompt)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) Send(ctx context.Context, req api.SendRequest) error {
	return m.Called(req).Error(0)
}

func (m *MockBackend) CreateEvent(ctx context.Context, req api.EventRequest) (string, error) {
	args := m.Called(req)
	return args.String(0), args.Error(1)
}

// SignedIn registers the calls a successful session start makes: identity,
// persona and the first inbox load.
func (m *MockBackend) SignedIn(user model.User, persona string, inbox []model.EmailHeader) {
	m.On("Me").Return(&user, nil).Once()
	m.On("Persona").Return(persona, nil).Once()
	m.On("Inbox").Return(inbox, nil).Once()
}
