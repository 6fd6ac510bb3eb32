package constant

const (
	ChatMessageRoleUser   = "user"
	ChatMessageRoleSystem = "system"

	// Message types stored per stage record
	MessageTypeUser     = "user"
	MessageTypeResearch = "research_ai"
	MessageTypeGuidance = "guidance_ai"

	// Pipeline stages
	StageResearch = "research"
	StageGuidance = "guidance"
	StageComplete = "complete"
	StageBoth     = "both"

	// Websocket event types
	EventAiStatus   = "ai-status"
	EventAiResponse = "ai-response"

	// Status event payloads
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"

	StatusMessageResearch = "Researching legal information..."
	StatusMessageGuidance = "Analyzing guidance recommendations..."
	StatusMessageComplete = "Response generated successfully"
	StatusMessageFallback = "AI processing failed, trying fallback..."

	// Analytics event types
	AnalyticsMessageProcessed = "message_processed"
)
