package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"legal-copilot-be/internal/config"
	"legal-copilot-be/internal/constant"
	"legal-copilot-be/internal/dto"
	"legal-copilot-be/internal/entity"
	"legal-copilot-be/internal/pkg/logger"
	"legal-copilot-be/internal/repository/memory"
	"legal-copilot-be/internal/repository/specification"
	"legal-copilot-be/internal/repository/unitofwork"
	"legal-copilot-be/pkg/llm"
	"legal-copilot-be/pkg/offline"
	"legal-copilot-be/pkg/postprocess"
	"legal-copilot-be/pkg/prompt"
	"legal-copilot-be/pkg/retrieval"

	"github.com/google/uuid"
)

// EventEmitter pushes real-time events to a session's subscribers.
// Implemented by the websocket hub.
type EventEmitter interface {
	Emit(sessionID uuid.UUID, event string, data interface{})
}

type IChatService interface {
	CreateSession(ctx context.Context, userId uuid.UUID, request *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	SendMessage(ctx context.Context, userId uuid.UUID, request *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, request *dto.DeleteSessionRequest) error
}

// chatService runs the question pipeline: persist the user message,
// retrieve grounding passages, gate, probe the generation backend, run the
// research and guidance stages, post-process, persist each stage as its own
// write, and fan results out over the session event stream. Messages within
// one session are processed strictly one at a time.
type chatService struct {
	uowFactory   unitofwork.RepositoryFactory
	provider     llm.Provider
	retriever    retrieval.Retriever
	fallback     *offline.Engine
	contextRepo  *memory.ContextRepository
	emitter      EventEmitter
	publisher    IPublisherService
	logger       logger.ILogger
	aiCfg        config.AIConfig
	retrievalCfg config.RetrievalConfig

	// Per-session serialization. Lock lifetime matches session lifetime.
	sessionLocks sync.Map
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	provider llm.Provider,
	retriever retrieval.Retriever,
	fallback *offline.Engine,
	contextRepo *memory.ContextRepository,
	emitter EventEmitter,
	publisher IPublisherService,
	sysLogger logger.ILogger,
	aiCfg config.AIConfig,
	retrievalCfg config.RetrievalConfig,
) IChatService {
	return &chatService{
		uowFactory:   uowFactory,
		provider:     provider,
		retriever:    retriever,
		fallback:     fallback,
		contextRepo:  contextRepo,
		emitter:      emitter,
		publisher:    publisher,
		logger:       sysLogger,
		aiCfg:        aiCfg,
		retrievalCfg: retrievalCfg,
	}
}

func (cs *chatService) CreateSession(ctx context.Context, userId uuid.UUID, request *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	title := "Unnamed session"
	if request != nil && request.Title != "" {
		title = request.Title
	}

	session := &entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     title,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if request != nil && request.Jurisdiction != nil {
		session.Jurisdiction = &entity.Jurisdiction{
			State:    request.Jurisdiction.State,
			Locality: request.Jurisdiction.Locality,
		}
	}

	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{Id: session.Id}, nil
}

func (cs *chatService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ActiveOnly{},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.GetAllSessionsResponse, 0, len(sessions))
	for _, s := range sessions {
		item := &dto.GetAllSessionsResponse{
			Id:        s.Id,
			Title:     s.Title,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		}
		if s.Jurisdiction != nil {
			item.Jurisdiction = &dto.JurisdictionDTO{
				State:    s.Jurisdiction.State,
				Locality: s.Jurisdiction.Locality,
			}
		}
		res = append(res, item)
	}
	return res, nil
}

func (cs *chatService) GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := cs.findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	messages, err := uow.StageMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.GetChatHistoryResponse, 0, len(messages))
	for _, m := range messages {
		res = append(res, &dto.GetChatHistoryResponse{
			Id:           m.Id,
			Type:         m.Type,
			Content:      m.Content,
			Citations:    citationDTOs(m.Citations),
			Confidence:   m.Confidence,
			ProcessingMs: m.ProcessingMs,
			Degraded:     m.Degraded,
			CreatedAt:    m.CreatedAt,
		})
	}
	return res, nil
}

func (cs *chatService) DeleteSession(ctx context.Context, userId uuid.UUID, request *dto.DeleteSessionRequest) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := cs.findOwnedSession(ctx, uow, userId, request.ChatSessionId)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.StageMessageRepository().DeleteByChatSessionId(ctx, session.Id); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, session.Id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	cs.contextRepo.Delete(session.Id.String())
	cs.sessionLocks.Delete(session.Id)
	return nil
}

// SendMessage runs the full pipeline for one officer question.
func (cs *chatService) SendMessage(ctx context.Context, userId uuid.UUID, request *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := cs.findOwnedSession(ctx, uow, userId, request.ChatSessionId)
	if err != nil {
		return nil, err
	}

	lock := cs.lockSession(session.Id)
	lock.Lock()
	defer lock.Unlock()

	stage := request.Stage
	if stage == "" {
		stage = constant.StageBoth
	}

	start := time.Now()

	userMsg := &entity.StageMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Type:          constant.MessageTypeUser,
		Content:       request.Message,
		CreatedAt:     time.Now(),
	}
	if err := uow.StageMessageRepository().Create(ctx, userMsg); err != nil {
		return nil, err
	}

	promptCtx := cs.buildPromptContext(ctx, uow, userId, session)
	promptCtx.Urgent = request.Urgent

	// Retrieval and grounding gate. Retrieval is total; a failed or empty
	// search surfaces as an ungrounded decision, never as a request error.
	result := cs.retriever.Search(ctx, request.Message, cs.retrievalCfg.TopN)
	decision := retrieval.Decide(result, cs.retrievalCfg.GroundingThreshold)
	if !decision.Grounded {
		cs.logger.Info("ChatService", "Query refused by grounding gate", map[string]interface{}{
			"session_id": session.Id,
			"best_score": decision.BestScore,
		})
		return cs.refuse(ctx, uow, userId, session, decision, start)
	}
	promptCtx.RetrievedContext = result.Context()

	// Backend availability probe. An unreachable backend routes the whole
	// request through the offline engine instead of failing it.
	if !cs.provider.Available(ctx) {
		cs.logger.Warn("ChatService", "Generation backend unavailable, using offline fallback", map[string]interface{}{
			"session_id": session.Id,
		})
		cs.emitStatus(session.Id, constant.StatusError, constant.StageResearch, constant.StatusMessageFallback)
		return cs.respondOffline(ctx, uow, userId, session, request.Message, stage, start)
	}

	response := &dto.SendMessageResponse{ChatSessionId: session.Id}

	// Research stage. Always runs: guidance must be grounded in a
	// persisted research record even when only guidance was requested.
	if stage != constant.StageGuidance {
		cs.emitStatus(session.Id, constant.StatusProcessing, constant.StageResearch, constant.StatusMessageResearch)
	}

	researchMsg, err := cs.runStage(ctx, session.Id, constant.MessageTypeResearch,
		prompt.BuildResearchMessages(request.Message, promptCtx), cs.aiCfg.ResearchTemperature)
	if err != nil {
		cs.logger.Warn("ChatService", "Research generation failed, using offline fallback", map[string]interface{}{
			"session_id": session.Id,
			"error":      err.Error(),
		})
		cs.emitStatus(session.Id, constant.StatusError, constant.StageResearch, constant.StatusMessageFallback)
		return cs.respondOffline(ctx, uow, userId, session, request.Message, stage, start)
	}
	if err := uow.StageMessageRepository().Create(ctx, researchMsg); err != nil {
		return nil, err
	}
	if stage != constant.StageGuidance {
		cs.emitResponse(session.Id, researchMsg)
		response.Research = stageResultDTO(researchMsg)
	}

	if stage == constant.StageResearch {
		cs.emitStatus(session.Id, constant.StatusCompleted, constant.StageComplete, constant.StatusMessageComplete)
		cs.publishAnalytics(ctx, userId, session.Id, stage, time.Since(start), false, false)
		return response, nil
	}

	// Guidance stage, fed the research output verbatim.
	cs.emitStatus(session.Id, constant.StatusProcessing, constant.StageGuidance, constant.StatusMessageGuidance)

	guidanceMsg, err := cs.runStage(ctx, session.Id, constant.MessageTypeGuidance,
		prompt.BuildGuidanceMessages(request.Message, researchMsg.Content, promptCtx), cs.aiCfg.GuidanceTemperature)
	if err != nil {
		// Research already persisted, so degrade only the guidance stage.
		cs.logger.Warn("ChatService", "Guidance generation failed, using offline fallback", map[string]interface{}{
			"session_id": session.Id,
			"error":      err.Error(),
		})
		cs.emitStatus(session.Id, constant.StatusError, constant.StageGuidance, constant.StatusMessageFallback)
		pair := cs.fallback.Respond(request.Message)
		guidanceMsg = degradedStageMessage(session.Id, constant.MessageTypeGuidance, pair.Guidance)
		response.Offline = true
	}
	if err := uow.StageMessageRepository().Create(ctx, guidanceMsg); err != nil {
		return nil, err
	}
	cs.emitResponse(session.Id, guidanceMsg)
	response.Guidance = stageResultDTO(guidanceMsg)

	cs.emitStatus(session.Id, constant.StatusCompleted, constant.StageComplete, constant.StatusMessageComplete)
	cs.publishAnalytics(ctx, userId, session.Id, stage, time.Since(start), response.Offline, false)
	return response, nil
}

// runStage executes one generation call and post-processes its output into
// an unpersisted stage record.
func (cs *chatService) runStage(ctx context.Context, sessionId uuid.UUID, msgType string, messages []llm.Message, temperature float64) (*entity.StageMessage, error) {
	genCtx, cancel := context.WithTimeout(ctx, cs.aiCfg.GenerationTimeout)
	defer cancel()

	stageStart := time.Now()
	result, err := cs.provider.Chat(genCtx, messages,
		llm.WithTemperature(temperature),
		llm.WithMaxTokens(cs.aiCfg.MaxTokens),
	)
	if err != nil {
		return nil, err
	}

	confidence := postprocess.ExtractConfidence(result.Content)
	return &entity.StageMessage{
		Id:            uuid.New(),
		ChatSessionId: sessionId,
		Type:          msgType,
		Content:       result.Content,
		Citations:     entityCitations(postprocess.ExtractCitations(result.Content)),
		Confidence:    &confidence,
		ProcessingMs:  time.Since(stageStart).Milliseconds(),
		CreatedAt:     time.Now(),
	}, nil
}

// refuse handles an ungrounded query: one refusal record, zero confidence,
// no generation calls, no processing status events.
func (cs *chatService) refuse(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, session *entity.ChatSession, decision retrieval.Decision, start time.Time) (*dto.SendMessageResponse, error) {
	confidence := 0.0
	msg := &entity.StageMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Type:          constant.MessageTypeResearch,
		Content:       decision.Refusal,
		Citations:     []entity.Citation{},
		Confidence:    &confidence,
		ProcessingMs:  time.Since(start).Milliseconds(),
		CreatedAt:     time.Now(),
	}
	if err := uow.StageMessageRepository().Create(ctx, msg); err != nil {
		return nil, err
	}

	cs.emitResponse(session.Id, msg)
	cs.publishAnalytics(ctx, userId, session.Id, constant.StageResearch, time.Since(start), false, true)

	return &dto.SendMessageResponse{
		ChatSessionId: session.Id,
		Research:      stageResultDTO(msg),
		Refused:       true,
	}, nil
}

// respondOffline serves the request from the keyword-rule engine when the
// generation backend is down or failing.
func (cs *chatService) respondOffline(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, session *entity.ChatSession, query, stage string, start time.Time) (*dto.SendMessageResponse, error) {
	pair := cs.fallback.Respond(query)
	response := &dto.SendMessageResponse{ChatSessionId: session.Id, Offline: true}

	researchMsg := degradedStageMessage(session.Id, constant.MessageTypeResearch, pair.Research)
	if err := uow.StageMessageRepository().Create(ctx, researchMsg); err != nil {
		return nil, err
	}
	if stage != constant.StageGuidance {
		cs.emitResponse(session.Id, researchMsg)
		response.Research = stageResultDTO(researchMsg)
	}

	if stage != constant.StageResearch {
		guidanceMsg := degradedStageMessage(session.Id, constant.MessageTypeGuidance, pair.Guidance)
		if err := uow.StageMessageRepository().Create(ctx, guidanceMsg); err != nil {
			return nil, err
		}
		cs.emitResponse(session.Id, guidanceMsg)
		response.Guidance = stageResultDTO(guidanceMsg)
	}

	cs.emitStatus(session.Id, constant.StatusCompleted, constant.StageComplete, constant.StatusMessageComplete)
	cs.publishAnalytics(ctx, userId, session.Id, stage, time.Since(start), true, false)
	return response, nil
}

func (cs *chatService) findOwnedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
		specification.ActiveOnly{},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("chat session not found")
	}
	return session, nil
}

// buildPromptContext assembles jurisdiction, department and role context,
// cached per session. Urgent and RetrievedContext are per-request and left
// unset here.
func (cs *chatService) buildPromptContext(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, session *entity.ChatSession) *prompt.Context {
	if cached, ok := cs.contextRepo.Get(session.Id.String()); ok {
		cp := *cached
		return &cp
	}

	pc := &prompt.Context{}
	if session.Jurisdiction != nil {
		pc.Jurisdiction = &prompt.Jurisdiction{
			State:    session.Jurisdiction.State,
			Locality: session.Jurisdiction.Locality,
		}
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		cs.logger.Warn("ChatService", "Failed to load user for prompt context", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
	}
	if user != nil {
		pc.UserRole = user.Role
		if user.DepartmentId != nil {
			dept, err := uow.UserRepository().FindDepartment(ctx, *user.DepartmentId)
			if err != nil {
				cs.logger.Warn("ChatService", "Failed to load department for prompt context", map[string]interface{}{
					"department_id": *user.DepartmentId,
					"error":         err.Error(),
				})
			}
			if dept != nil {
				pc.Department = &prompt.Department{
					Name:     dept.Name,
					Policies: dept.Policies,
				}
			}
		}
	}

	cs.contextRepo.Save(session.Id.String(), pc)
	cp := *pc
	return &cp
}

func (cs *chatService) lockSession(id uuid.UUID) *sync.Mutex {
	v, _ := cs.sessionLocks.LoadOrStore(id, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (cs *chatService) emitStatus(sessionId uuid.UUID, status, stage, message string) {
	if cs.emitter == nil {
		return
	}
	cs.emitter.Emit(sessionId, constant.EventAiStatus, dto.AiStatusEvent{
		Status:  status,
		Stage:   stage,
		Message: message,
	})
}

func (cs *chatService) emitResponse(sessionId uuid.UUID, msg *entity.StageMessage) {
	if cs.emitter == nil {
		return
	}
	confidence := 0.0
	if msg.Confidence != nil {
		confidence = *msg.Confidence
	}
	cs.emitter.Emit(sessionId, constant.EventAiResponse, dto.AiResponseEvent{
		ChatSessionId: sessionId,
		MessageId:     msg.Id,
		Type:          msg.Type,
		Content:       msg.Content,
		Citations:     citationDTOs(msg.Citations),
		Confidence:    confidence,
		ProcessingMs:  msg.ProcessingMs,
		Degraded:      msg.Degraded,
	})
}

func (cs *chatService) publishAnalytics(ctx context.Context, userId, sessionId uuid.UUID, stage string, elapsed time.Duration, degraded, refused bool) {
	if cs.publisher == nil {
		return
	}
	payload, err := json.Marshal(dto.PublishAnalyticsMessage{
		UserId:    userId,
		EventType: constant.AnalyticsMessageProcessed,
		Payload: map[string]interface{}{
			"chat_session_id": sessionId.String(),
			"stage":           stage,
			"duration_ms":     elapsed.Milliseconds(),
			"degraded":        degraded,
			"refused":         refused,
		},
	})
	if err != nil {
		return
	}
	if err := cs.publisher.Publish(ctx, payload); err != nil {
		cs.logger.Warn("ChatService", "Failed to publish analytics event", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}
}

func degradedStageMessage(sessionId uuid.UUID, msgType, content string) *entity.StageMessage {
	confidence := offline.DegradedConfidence
	return &entity.StageMessage{
		Id:            uuid.New(),
		ChatSessionId: sessionId,
		Type:          msgType,
		Content:       offline.DegradedPrefix + content,
		Citations:     []entity.Citation{},
		Confidence:    &confidence,
		Degraded:      true,
		CreatedAt:     time.Now(),
	}
}

func entityCitations(citations []postprocess.Citation) []entity.Citation {
	res := make([]entity.Citation, 0, len(citations))
	for _, c := range citations {
		res = append(res, entity.Citation{Kind: c.Kind, Source: c.Source})
	}
	return res
}

func citationDTOs(citations []entity.Citation) []dto.CitationDTO {
	res := make([]dto.CitationDTO, 0, len(citations))
	for _, c := range citations {
		res = append(res, dto.CitationDTO{Type: c.Kind, Source: c.Source})
	}
	return res
}

func stageResultDTO(msg *entity.StageMessage) *dto.StageResultDTO {
	confidence := 0.0
	if msg.Confidence != nil {
		confidence = *msg.Confidence
	}
	return &dto.StageResultDTO{
		Id:           msg.Id,
		Type:         msg.Type,
		Content:      msg.Content,
		Citations:    citationDTOs(msg.Citations),
		Confidence:   confidence,
		ProcessingMs: msg.ProcessingMs,
		Degraded:     msg.Degraded,
		CreatedAt:    msg.CreatedAt,
	}
}
