package api

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"studypulse/internal/config"
	"studypulse/internal/emotion"
	"studypulse/internal/logging"
	"studypulse/internal/metrics"
	"studypulse/internal/recommend"
	"studypulse/internal/services"
	"studypulse/internal/sessions"
	"studypulse/internal/validation"
	"studypulse/internal/voice"
)

// SessionStore abstracts the persistence the Assistant needs.
type SessionStore interface {
	Record(ctx context.Context, analysis sessions.AnalysisResult, rec recommend.Recommendation) (sessions.Record, error)
	History(ctx context.Context, limit int) ([]sessions.Record, error)
}

// AssistantOptions configures an Assistant. Nil collaborators fall back to the
// static classifier and disabled transcription.
type AssistantOptions struct {
	Classifier   emotion.Classifier
	Transcriber  voice.Transcriber
	ImageLimits  emotion.Limits
	MaxFrames    int
	HistoryLimit int
	Backend      string
	Logger       *slog.Logger
	// OnRecord is called after every persisted session.
	OnRecord func(sessions.Record)
}

// Assistant runs analyses and history queries.
type Assistant struct {
	store        SessionStore
	classifier   emotion.Classifier
	transcriber  voice.Transcriber
	limits       emotion.Limits
	maxFrames    int
	historyLimit int
	backend      string
	logger       *slog.Logger
	onRecord     func(sessions.Record)
}

const defaultMaxFrames = 10

// WithConfig fills the limits and backend name from cfg.
func (o AssistantOptions) WithConfig(cfg *config.Config) AssistantOptions {
	if cfg == nil {
		return o
	}
	o.ImageLimits = emotion.Limits{
		MaxBytes:     cfg.Classifier.MaxImageBytes,
		MaxDimension: cfg.Classifier.MaxImageDimension,
	}
	o.MaxFrames = cfg.Classifier.MaxFrames
	o.HistoryLimit = cfg.Sessions.HistoryLimit
	o.Backend = cfg.Sessions.Backend
	return o
}

// NewAssistant constructs an Assistant around store.
func NewAssistant(store SessionStore, opts AssistantOptions) *Assistant {
	a := &Assistant{
		store:        store,
		classifier:   opts.Classifier,
		transcriber:  opts.Transcriber,
		limits:       opts.ImageLimits,
		maxFrames:    opts.MaxFrames,
		historyLimit: sessions.ClampLimit(opts.HistoryLimit),
		backend:      opts.Backend,
		logger:       logging.NewComponentLogger(opts.Logger, "assistant"),
		onRecord:     opts.OnRecord,
	}
	if a.classifier == nil {
		a.classifier = emotion.Static{}
	}
	if a.transcriber == nil {
		a.transcriber = voice.Disabled{}
	}
	if a.maxFrames <= 0 {
		a.maxFrames = defaultMaxFrames
	}
	if a.backend == "" {
		a.backend = "unknown"
	}
	return a
}

// AnalyzeEmotion classifies one or more snapshots, averages the frames,
// records the session and returns the recommendation for the dominant label.
func (a *Assistant) AnalyzeEmotion(ctx context.Context, req EmotionRequest) (result EmotionResult, err error) {
	ctx = services.WithAnalysisKind(ctx, string(sessions.KindEmotion))
	started := time.Now()
	defer func() { metrics.RecordAnalysis(string(sessions.KindEmotion), err, time.Since(started)) }()

	payloads := framePayloads(req)
	if len(payloads) == 0 {
		return EmotionResult{}, invalidInput("no image data provided")
	}
	if len(payloads) > a.maxFrames {
		return EmotionResult{}, invalidInput("too many images: %d (max %d)", len(payloads), a.maxFrames)
	}

	readings := make([]emotion.Reading, 0, len(payloads))
	for i, payload := range payloads {
		img, err := emotion.DecodeImage(payload, a.limits)
		if err != nil {
			if len(payloads) > 1 {
				return EmotionResult{}, fmt.Errorf("frame %d: %w", i+1, err)
			}
			return EmotionResult{}, err
		}
		reading, err := a.classifier.Classify(ctx, img)
		if err != nil {
			return EmotionResult{}, fmt.Errorf("classify frame %d: %w", i+1, err)
		}
		readings = append(readings, reading)
	}

	reading, err := emotion.Aggregate(readings)
	if err != nil {
		return EmotionResult{}, err
	}

	rec := recommend.Lookup(reading.Dominant, "")
	record, err := a.record(ctx, sessions.AnalysisResult{
		Kind:   sessions.KindEmotion,
		Label:  reading.Dominant,
		Score:  reading.Confidence,
		Scores: reading.Scores,
		Frames: len(readings),
	}, rec)
	if err != nil {
		return EmotionResult{}, err
	}

	return EmotionResult{
		Success:         true,
		Emotion:         reading.Dominant,
		Confidence:      reading.Confidence,
		Emotions:        reading.Scores,
		Frames:          len(readings),
		Recommendations: rec,
		SessionID:       record.ID,
	}, nil
}

// AnalyzeTranscript classifies stress from a transcript and records the session.
func (a *Assistant) AnalyzeTranscript(ctx context.Context, req VoiceRequest) (result VoiceResult, err error) {
	ctx = services.WithAnalysisKind(ctx, string(sessions.KindVoice))
	started := time.Now()
	defer func() { metrics.RecordAnalysis(string(sessions.KindVoice), err, time.Since(started)) }()

	if err := validation.Struct(&req); err != nil {
		return VoiceResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return a.analyzeTranscript(ctx, *req.Transcript)
}

// AnalyzeAudio transcribes an upload and then analyzes the transcript.
func (a *Assistant) AnalyzeAudio(ctx context.Context, audio voice.Audio) (result VoiceResult, err error) {
	ctx = services.WithAnalysisKind(ctx, string(sessions.KindVoice))
	started := time.Now()
	defer func() { metrics.RecordAnalysis(string(sessions.KindVoice), err, time.Since(started)) }()

	if audio.Body == nil {
		return VoiceResult{}, invalidInput("no audio provided")
	}
	transcript, err := a.transcriber.Transcribe(ctx, audio)
	if err != nil {
		return VoiceResult{}, err
	}
	if strings.TrimSpace(transcript) == "" {
		return VoiceResult{}, services.Wrap(services.ErrUnprocessable, "voice", "transcribe", "no speech recognised", nil)
	}
	return a.analyzeTranscript(ctx, transcript)
}

func (a *Assistant) analyzeTranscript(ctx context.Context, transcript string) (VoiceResult, error) {
	analysis := voice.Analyze(transcript)
	rec := recommend.Lookup(string(analysis.StressLevel), "")
	record, err := a.record(ctx, sessions.AnalysisResult{
		Kind:        sessions.KindVoice,
		Label:       string(analysis.StressLevel),
		Score:       analysis.EnergyLevel,
		Transcript:  analysis.Transcript,
		WordCount:   analysis.WordCount,
		StressLevel: string(analysis.StressLevel),
	}, rec)
	if err != nil {
		return VoiceResult{}, err
	}
	return VoiceResult{
		Success:         true,
		VoiceResult:     analysis,
		Recommendations: rec,
		SessionID:       record.ID,
	}, nil
}

// Recommend looks up recommendations for an emotion and optional stress
// level. An empty emotion means neutral. Nothing is recorded.
func (a *Assistant) Recommend(_ context.Context, req RecommendationRequest) RecommendationResult {
	label := req.Emotion
	if strings.TrimSpace(label) == "" {
		label = emotion.Neutral
	}
	return RecommendationResult{Success: true, Recommendations: recommend.Lookup(label, req.StressLevel)}
}

// History returns recent sessions newest first. A non-positive limit uses the
// configured history size; no call ever returns more than sessions.MaxHistory.
func (a *Assistant) History(ctx context.Context, limit int) ([]sessions.Record, error) {
	if limit <= 0 {
		limit = a.historyLimit
	}
	records, err := a.store.History(ctx, sessions.ClampLimit(limit))
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "sessions", "history", "read failed", err)
	}
	if records == nil {
		records = []sessions.Record{}
	}
	return records, nil
}

func (a *Assistant) record(ctx context.Context, analysis sessions.AnalysisResult, rec recommend.Recommendation) (sessions.Record, error) {
	record, err := a.store.Record(ctx, analysis, rec)
	if err != nil {
		return sessions.Record{}, services.Wrap(services.ErrTransient, "sessions", "record", "write failed", err)
	}
	metrics.RecordSession(a.backend)
	metrics.RecordLabel(string(analysis.Kind), analysis.Label)
	logging.WithContext(ctx, a.logger).Info("session recorded",
		logging.String(logging.FieldSessionID, record.ID),
		logging.String("label", analysis.Label),
		logging.String("recommendation", rec.Key),
	)
	if a.onRecord != nil {
		a.onRecord(record)
	}
	return record, nil
}

func framePayloads(req EmotionRequest) []string {
	payloads := make([]string, 0, len(req.Images)+1)
	if strings.TrimSpace(req.Image) != "" {
		payloads = append(payloads, req.Image)
	}
	for _, img := range req.Images {
		if strings.TrimSpace(img) != "" {
			payloads = append(payloads, img)
		}
	}
	return payloads
}
