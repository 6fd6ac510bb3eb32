package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"legal-copilot-be/internal/config"
	"legal-copilot-be/internal/constant"
	"legal-copilot-be/internal/dto"
	"legal-copilot-be/internal/entity"
	"legal-copilot-be/internal/repository/contract"
	"legal-copilot-be/internal/repository/memory"
	"legal-copilot-be/internal/repository/specification"
	"legal-copilot-be/internal/repository/unitofwork"
	"legal-copilot-be/pkg/llm"
	"legal-copilot-be/pkg/offline"
	"legal-copilot-be/pkg/retrieval"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Fakes ---

type fakeUserRepo struct {
	user       *entity.User
	department *entity.Department
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error { return nil }
func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	return r.user, nil
}
func (r *fakeUserRepo) FindDepartment(ctx context.Context, id uuid.UUID) (*entity.Department, error) {
	return r.department, nil
}

type fakeSessionRepo struct {
	session *entity.ChatSession
	created []*entity.ChatSession
	deleted []uuid.UUID
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	r.created = append(r.created, session)
	return nil
}
func (r *fakeSessionRepo) Update(ctx context.Context, session *entity.ChatSession) error { return nil }
func (r *fakeSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.deleted = append(r.deleted, id)
	return nil
}
func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	return r.session, nil
}
func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	if r.session == nil {
		return nil, nil
	}
	return []*entity.ChatSession{r.session}, nil
}

type fakeMessageRepo struct {
	mu        sync.Mutex
	messages  []*entity.StageMessage
	createErr error
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.StageMessage) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	return nil
}
func (r *fakeMessageRepo) DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
	return nil
}
func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.StageMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.StageMessage{}, r.messages...), nil
}
func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.messages)), nil
}

func (r *fakeMessageRepo) byType(msgType string) []*entity.StageMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []*entity.StageMessage
	for _, m := range r.messages {
		if m.Type == msgType {
			res = append(res, m)
		}
	}
	return res
}

type fakeAnalyticsRepo struct{}

func (r *fakeAnalyticsRepo) Create(ctx context.Context, event *entity.AnalyticsEvent) error {
	return nil
}

type fakeUow struct {
	users     *fakeUserRepo
	sessions  *fakeSessionRepo
	messages  *fakeMessageRepo
	analytics *fakeAnalyticsRepo
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }
func (u *fakeUow) UserRepository() contract.UserRepository {
	return u.users
}
func (u *fakeUow) ChatSessionRepository() contract.ChatSessionRepository {
	return u.sessions
}
func (u *fakeUow) StageMessageRepository() contract.StageMessageRepository {
	return u.messages
}
func (u *fakeUow) AnalyticsEventRepository() contract.AnalyticsEventRepository {
	return u.analytics
}

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type chatTurn struct {
	content string
	err     error
}

type fakeProvider struct {
	mu        sync.Mutex
	available bool
	turns     []chatTurn
	temps     []float64
}

func (p *fakeProvider) Chat(ctx context.Context, messages []llm.Message, opts ...llm.Option) (*llm.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	options := llm.BuildOptions(opts...)
	p.temps = append(p.temps, options.Temperature)

	if len(p.turns) == 0 {
		return nil, errors.New("no scripted turns left")
	}
	turn := p.turns[0]
	p.turns = p.turns[1:]
	if turn.err != nil {
		return nil, turn.err
	}
	return &llm.Result{Content: turn.content, Model: "fake"}, nil
}

func (p *fakeProvider) Available(ctx context.Context) bool { return p.available }

type fakeRetriever struct {
	result *retrieval.Result
}

func (r *fakeRetriever) Search(ctx context.Context, query string, topN int) *retrieval.Result {
	return r.result
}

type emittedEvent struct {
	event string
	data  interface{}
}

type fakeEmitter struct {
	mu     sync.Mutex
	events []emittedEvent
}

func (e *fakeEmitter) Emit(sessionID uuid.UUID, event string, data interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, emittedEvent{event: event, data: data})
}

func (e *fakeEmitter) names() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, len(e.events))
	for i, ev := range e.events {
		names[i] = ev.event
	}
	return names
}

type fakePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// --- Harness ---

type chatFixture struct {
	service   IChatService
	uow       *fakeUow
	provider  *fakeProvider
	retriever *fakeRetriever
	emitter   *fakeEmitter
	publisher *fakePublisher
	userId    uuid.UUID
	sessionId uuid.UUID
}

func groundedResult() *retrieval.Result {
	return &retrieval.Result{
		Passages:  []retrieval.Passage{{Text: "Miranda v. Arizona requires warnings before custodial interrogation.", Score: 0.8}},
		BestScore: 0.8,
	}
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()

	userId := uuid.New()
	sessionId := uuid.New()

	uow := &fakeUow{
		users: &fakeUserRepo{
			user: &entity.User{Id: userId, Role: "sergeant"},
		},
		sessions: &fakeSessionRepo{
			session: &entity.ChatSession{
				Id:           sessionId,
				UserId:       userId,
				Title:        "test",
				IsActive:     true,
				Jurisdiction: &entity.Jurisdiction{State: "California"},
			},
		},
		messages:  &fakeMessageRepo{},
		analytics: &fakeAnalyticsRepo{},
	}

	provider := &fakeProvider{available: true}
	retriever := &fakeRetriever{result: groundedResult()}
	emitter := &fakeEmitter{}
	publisher := &fakePublisher{}

	svc := NewChatService(
		&fakeUowFactory{uow: uow},
		provider,
		retriever,
		offline.NewDefaultEngine(),
		memory.NewContextRepository(),
		emitter,
		publisher,
		nopLogger{},
		config.AIConfig{
			GenerationTimeout:   5 * time.Second,
			ProbeTimeout:        time.Second,
			ResearchTemperature: 0.3,
			GuidanceTemperature: 0.5,
			MaxTokens:           512,
		},
		config.RetrievalConfig{
			TopN:               3,
			GroundingThreshold: 0.1,
		},
	)

	return &chatFixture{
		service:   svc,
		uow:       uow,
		provider:  provider,
		retriever: retriever,
		emitter:   emitter,
		publisher: publisher,
		userId:    userId,
		sessionId: sessionId,
	}
}

// --- Tests ---

func TestSendMessageFullPipeline(t *testing.T) {
	f := newChatFixture(t)
	f.provider.turns = []chatTurn{
		{content: "Research findings citing 18 U.S.C. § 242. High confidence in this answer."},
		{content: "You should read the warnings before questioning."},
	}

	res, err := f.service.SendMessage(context.Background(), f.userId, &dto.SendMessageRequest{
		ChatSessionId: f.sessionId,
		Message:       "When do I read Miranda rights?",
	})
	require.NoError(t, err)

	assert.False(t, res.Refused)
	assert.False(t, res.Offline)
	require.NotNil(t, res.Research)
	require.NotNil(t, res.Guidance)
	assert.Equal(t, constant.MessageTypeResearch, res.Research.Type)
	assert.Equal(t, constant.MessageTypeGuidance, res.Guidance.Type)

	// Stage temperatures diverge on purpose.
	assert.Equal(t, []float64{0.3, 0.5}, f.provider.temps)

	// Three independent writes: user, research, guidance.
	assert.Len(t, f.uow.messages.messages, 3)
	research := f.uow.messages.byType(constant.MessageTypeResearch)
	require.Len(t, research, 1)
	assert.NotEmpty(t, research[0].Citations)
	require.NotNil(t, research[0].Confidence)
	assert.Equal(t, 0.9, *research[0].Confidence)
	assert.False(t, research[0].Degraded)

	// Event order: research status, research result, guidance status,
	// guidance result, completion status.
	assert.Equal(t, []string{
		constant.EventAiStatus,
		constant.EventAiResponse,
		constant.EventAiStatus,
		constant.EventAiResponse,
		constant.EventAiStatus,
	}, f.emitter.names())

	assert.Len(t, f.publisher.payloads, 1)
}

func TestSendMessageRefusedByGate(t *testing.T) {
	f := newChatFixture(t)
	f.retriever.result = retrieval.EmptyResult()

	res, err := f.service.SendMessage(context.Background(), f.userId, &dto.SendMessageRequest{
		ChatSessionId: f.sessionId,
		Message:       "What is the airspeed of a swallow?",
	})
	require.NoError(t, err)

	assert.True(t, res.Refused)
	require.NotNil(t, res.Research)
	assert.Nil(t, res.Guidance)
	assert.Equal(t, retrieval.RefusalMessage, res.Research.Content)
	assert.Equal(t, 0.0, res.Research.Confidence)
	assert.Empty(t, res.Research.Citations)

	// No generation call may happen on a refused query.
	assert.Empty(t, f.provider.temps)

	// One refusal record besides the user message.
	assert.Len(t, f.uow.messages.messages, 2)

	// A refusal emits exactly one response event and no processing status.
	assert.Equal(t, []string{constant.EventAiResponse}, f.emitter.names())
}

func TestSendMessageBelowThresholdRefused(t *testing.T) {
	f := newChatFixture(t)
	f.retriever.result = &retrieval.Result{
		Passages:  []retrieval.Passage{{Text: "weak match", Score: 0.05}},
		BestScore: 0.05,
	}

	res, err := f.service.SendMessage(context.Background(), f.userId, &dto.SendMessageRequest{
		ChatSessionId: f.sessionId,
		Message:       "anything",
	})
	require.NoError(t, err)
	assert.True(t, res.Refused)
	assert.Empty(t, f.provider.temps)
}

func TestSendMessageOfflineWhenBackendDown(t *testing.T) {
	f := newChatFixture(t)
	f.provider.available = false

	res, err := f.service.SendMessage(context.Background(), f.userId, &dto.SendMessageRequest{
		ChatSessionId: f.sessionId,
		Message:       "When do I read Miranda rights?",
	})
	require.NoError(t, err)

	assert.True(t, res.Offline)
	require.NotNil(t, res.Research)
	require.NotNil(t, res.Guidance)
	assert.True(t, strings.HasPrefix(res.Research.Content, offline.DegradedPrefix))
	assert.True(t, res.Research.Degraded)
	assert.Equal(t, offline.DegradedConfidence, res.Research.Confidence)
	assert.Contains(t, res.Research.Content, "Miranda rights are required")

	// Provider must never be called when the probe fails.
	assert.Empty(t, f.provider.temps)

	// Both degraded stages persisted alongside the user message.
	assert.Len(t, f.uow.messages.messages, 3)
}

func TestSendMessageGuidanceFallsBackAlone(t *testing.T) {
	f := newChatFixture(t)
	f.provider.turns = []chatTurn{
		{content: "Solid research output. Medium confidence overall."},
		{err: llm.ErrBadStatus},
	}

	res, err := f.service.SendMessage(context.Background(), f.userId, &dto.SendMessageRequest{
		ChatSessionId: f.sessionId,
		Message:       "Can I search the vehicle?",
	})
	require.NoError(t, err)

	assert.True(t, res.Offline)
	require.NotNil(t, res.Research)
	require.NotNil(t, res.Guidance)

	// The successful research stage stays intact.
	assert.False(t, res.Research.Degraded)
	assert.Equal(t, 0.75, res.Research.Confidence)

	// Only the guidance stage degrades.
	assert.True(t, res.Guidance.Degraded)
	assert.True(t, strings.HasPrefix(res.Guidance.Content, offline.DegradedPrefix))

	research := f.uow.messages.byType(constant.MessageTypeResearch)
	require.Len(t, research, 1)
	assert.False(t, research[0].Degraded)
}

func TestSendMessageResearchStageOnly(t *testing.T) {
	f := newChatFixture(t)
	f.provider.turns = []chatTurn{
		{content: "Research only run."},
	}

	res, err := f.service.SendMessage(context.Background(), f.userId, &dto.SendMessageRequest{
		ChatSessionId: f.sessionId,
		Message:       "What does the statute say?",
		Stage:         constant.StageResearch,
	})
	require.NoError(t, err)

	require.NotNil(t, res.Research)
	assert.Nil(t, res.Guidance)
	assert.Equal(t, []float64{0.3}, f.provider.temps)
	assert.Len(t, f.uow.messages.messages, 2)
}

func TestSendMessageGuidanceStageStillRunsResearch(t *testing.T) {
	f := newChatFixture(t)
	f.provider.turns = []chatTurn{
		{content: "Hidden research backing the guidance."},
		{content: "Directive guidance."},
	}

	res, err := f.service.SendMessage(context.Background(), f.userId, &dto.SendMessageRequest{
		ChatSessionId: f.sessionId,
		Message:       "What should I do?",
		Stage:         constant.StageGuidance,
	})
	require.NoError(t, err)

	// Research is not part of the reply but must exist as a record: every
	// guidance record needs an antecedent research record.
	assert.Nil(t, res.Research)
	require.NotNil(t, res.Guidance)
	assert.Len(t, f.provider.temps, 2)
	require.Len(t, f.uow.messages.byType(constant.MessageTypeResearch), 1)
	require.Len(t, f.uow.messages.byType(constant.MessageTypeGuidance), 1)
}

func TestSendMessagePersistenceFailureIsARequestError(t *testing.T) {
	f := newChatFixture(t)
	f.uow.messages.createErr = errors.New("db down")

	_, err := f.service.SendMessage(context.Background(), f.userId, &dto.SendMessageRequest{
		ChatSessionId: f.sessionId,
		Message:       "anything",
	})
	require.Error(t, err)
}

func TestSendMessageUnknownSession(t *testing.T) {
	f := newChatFixture(t)
	f.uow.sessions.session = nil

	_, err := f.service.SendMessage(context.Background(), f.userId, &dto.SendMessageRequest{
		ChatSessionId: uuid.New(),
		Message:       "anything",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCreateSession(t *testing.T) {
	f := newChatFixture(t)

	res, err := f.service.CreateSession(context.Background(), f.userId, &dto.CreateSessionRequest{
		Title: "Traffic stop questions",
		Jurisdiction: &dto.JurisdictionDTO{
			State:    "Texas",
			Locality: "Austin",
		},
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, res.Id)

	require.Len(t, f.uow.sessions.created, 1)
	created := f.uow.sessions.created[0]
	assert.Equal(t, "Traffic stop questions", created.Title)
	assert.True(t, created.IsActive)
	require.NotNil(t, created.Jurisdiction)
	assert.Equal(t, "Texas", created.Jurisdiction.State)
}

func TestGetChatHistory(t *testing.T) {
	f := newChatFixture(t)
	f.provider.turns = []chatTurn{
		{content: "research"},
		{content: "guidance"},
	}

	_, err := f.service.SendMessage(context.Background(), f.userId, &dto.SendMessageRequest{
		ChatSessionId: f.sessionId,
		Message:       "q",
	})
	require.NoError(t, err)

	history, err := f.service.GetChatHistory(context.Background(), f.userId, f.sessionId)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, constant.MessageTypeUser, history[0].Type)
	assert.Equal(t, constant.MessageTypeResearch, history[1].Type)
	assert.Equal(t, constant.MessageTypeGuidance, history[2].Type)
}

func TestDeleteSession(t *testing.T) {
	f := newChatFixture(t)

	err := f.service.DeleteSession(context.Background(), f.userId, &dto.DeleteSessionRequest{
		ChatSessionId: f.sessionId,
	})
	require.NoError(t, err)
	require.Len(t, f.uow.sessions.deleted, 1)
	assert.Equal(t, f.sessionId, f.uow.sessions.deleted[0])
}
