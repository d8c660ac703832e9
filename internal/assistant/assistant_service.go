package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go-leavemgmt/internal/ai"
	assistanterrors "go-leavemgmt/internal/assistant/errors"
	"go-leavemgmt/internal/leave"
	"go-leavemgmt/internal/shared/contextutil"
	"go-leavemgmt/internal/user"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	PatternKeyPrefix = "ai:patterns:"
	patternCacheTTL  = time.Hour

	DefaultTimeframe     = 90
	DefaultInsightsLimit = 10
	maxInsightsLimit     = 50

	recentLeavesInChat = 3
	attentionUrgency   = 4
	attentionAge       = 7 * 24 * time.Hour
)

func GetPatternKey(employeeID string, days int) string {
	return fmt.Sprintf("%s%s:%d", PatternKeyPrefix, employeeID, days)
}

// LeaveLister is the read side of the leave store the assistant needs.
type LeaveLister interface {
	List(ctx context.Context, f leave.ListFilter) ([]leave.Leave, error)
}

//go:generate mockgen -source=assistant_service.go -destination=mock/assistant_service_mock.go -package=mock
type Service interface {
	Chat(ctx context.Context, actorID, actorRole, message string) (ai.ChatReply, error)
	AnalyzePatterns(ctx context.Context, actorID, actorRole string, req AnalyzeRequest) (PatternResponse, error)
	Insights(ctx context.Context, actorID, actorRole string, limit int) (InsightsResponse, error)
}

type service struct {
	leaves     LeaveLister
	users      user.Repository
	classifier ai.Classifier
	rdb        *redis.Client
	sf         *singleflight.Group
	now        func() time.Time
	logger     *zap.Logger
}

func NewService(
	leaves LeaveLister,
	users user.Repository,
	classifier ai.Classifier,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("assistant.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("assistant.service")
	}
	return &service{
		leaves:     leaves,
		users:      users,
		classifier: classifier,
		rdb:        rdb,
		sf:         &singleflight.Group{},
		now:        func() time.Time { return time.Now().UTC() },
		logger:     l,
	}
}

func (s *service) Chat(ctx context.Context, actorID, actorRole, message string) (ai.ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" || len(message) > 500 {
		return ai.ChatReply{}, assistanterrors.ErrMessageRequired
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return ai.ChatReply{}, assistanterrors.ErrInvalidActorID
	}

	log := contextutil.GetLogger(ctx, s.logger)
	cctx := ai.ChatContext{Role: actorRole}

	if u, err := s.users.FindByID(ctx, actorID); err == nil {
		cctx.UserName = u.Name
	} else if !user.IsNotFound(err) {
		log.Warn("chat: load user failed", zap.String("user_id", actorID), zap.Error(err))
	}

	lower := strings.ToLower(message)
	if strings.Contains(lower, "my leave") || strings.Contains(lower, "status") {
		recent, err := s.leaves.List(ctx, leave.ListFilter{EmployeeID: actorID})
		if err != nil {
			return ai.ChatReply{}, err
		}
		for i := 0; i < len(recent) && i < recentLeavesInChat; i++ {
			summary := recent[i].Summary()
			summary.Reason = ""
			cctx.RecentLeaves = append(cctx.RecentLeaves, summary)
		}
	}

	return s.classifier.Chat(ctx, message, cctx), nil
}

func (s *service) AnalyzePatterns(ctx context.Context, actorID, actorRole string, req AnalyzeRequest) (PatternResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if _, err := uuid.Parse(actorID); err != nil {
		return PatternResponse{}, assistanterrors.ErrInvalidActorID
	}
	timeframe := req.Timeframe
	if timeframe == 0 {
		timeframe = DefaultTimeframe
	}
	if timeframe < 1 || timeframe > 365 {
		return PatternResponse{}, assistanterrors.ErrInvalidTimeframe
	}

	targetID := actorID
	if req.EmployeeID != "" {
		targetID = req.EmployeeID
	}

	target, err := s.authorizeTarget(ctx, actorID, actorRole, targetID)
	if err != nil {
		log.Warn("analyze patterns denied",
			zap.String("actor_id", actorID),
			zap.String("target_id", targetID),
			zap.Error(err),
		)
		return PatternResponse{}, err
	}

	prediction, err := s.patterns(ctx, target, timeframe)
	if err != nil {
		return PatternResponse{}, err
	}

	return PatternResponse{
		EmployeeID: targetID,
		Timeframe:  timeframe,
		Analysis:   prediction,
		AnalyzedAt: s.now(),
	}, nil
}

// authorizeTarget applies the role rules: employees see themselves, managers their direct reports, admins anyone.
func (s *service) authorizeTarget(ctx context.Context, actorID, actorRole, targetID string) (*user.User, error) {
	if actorRole == user.RoleEmployee && targetID != actorID {
		return nil, assistanterrors.ErrOwnPatternsOnly
	}
	if _, err := uuid.Parse(targetID); err != nil {
		return nil, assistanterrors.ErrEmployeeNotFound
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		if user.IsNotFound(err) {
			if actorRole == user.RoleManager {
				return nil, assistanterrors.ErrTeamPatternsOnly
			}
			return nil, assistanterrors.ErrEmployeeNotFound
		}
		return nil, err
	}

	if actorRole == user.RoleManager && targetID != actorID {
		if target.ManagerID == nil || target.ManagerID.String() != actorID {
			return nil, assistanterrors.ErrTeamPatternsOnly
		}
	}
	return target, nil
}

func (s *service) patterns(ctx context.Context, target *user.User, days int) (ai.PatternPrediction, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	cacheKey := GetPatternKey(target.ID.String(), days)

	if s.rdb != nil {
		if val, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cached ai.PatternPrediction
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				log.Debug("pattern cache hit", zap.String("key", cacheKey))
				return cached, nil
			}
		} else if err != redis.Nil {
			log.Warn("pattern cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	res, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		history, err := s.leaves.List(ctx, leave.ListFilter{
			EmployeeID: target.ID.String(),
			Since:      s.now().AddDate(0, 0, -days),
		})
		if err != nil {
			return nil, err
		}

		summaries := make([]ai.LeaveSummary, len(history))
		for i, l := range history {
			summaries[i] = l.Summary()
		}

		prediction := s.classifier.PredictPatterns(ctx, ai.PatternInput{
			EmployeeName:  target.Name,
			EmployeeRole:  target.Role,
			TimeframeDays: days,
			History:       summaries,
		})

		// Fallbacks are not cached so the next request retries the model.
		if s.rdb != nil && !prediction.Fallback {
			if data, err := json.Marshal(prediction); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, data, patternCacheTTL).Err(); err != nil {
					log.Warn("pattern cache write failed", zap.String("key", cacheKey), zap.Error(err))
				}
			}
		}
		return prediction, nil
	})
	if err != nil {
		return ai.PatternPrediction{}, err
	}
	return res.(ai.PatternPrediction), nil
}

func (s *service) Insights(ctx context.Context, actorID, actorRole string, limit int) (InsightsResponse, error) {
	if _, err := uuid.Parse(actorID); err != nil {
		return InsightsResponse{}, assistanterrors.ErrInvalidActorID
	}
	if limit == 0 {
		limit = DefaultInsightsLimit
	}
	if limit < 1 || limit > maxInsightsLimit {
		return InsightsResponse{}, assistanterrors.ErrInvalidLimit
	}

	filter := leave.ListFilter{Status: leave.StatusPending}
	if actorRole == user.RoleManager {
		filter.ManagerID = actorID
	}
	pending, err := s.leaves.List(ctx, filter)
	if err != nil {
		return InsightsResponse{}, err
	}

	ids := make([]string, 0, len(pending))
	for _, l := range pending {
		ids = append(ids, l.EmployeeID.String())
	}
	names := map[string]string{}
	if len(ids) > 0 {
		people, err := s.users.FindByIDs(ctx, ids)
		if err != nil {
			return InsightsResponse{}, err
		}
		for _, p := range people {
			names[p.ID.String()] = p.Name
		}
	}

	now := s.now()
	insights := make([]Insight, 0, len(pending))
	for _, l := range pending {
		insights = append(insights, s.insightOf(l, names, now))
	}

	sort.SliceStable(insights, func(i, j int) bool {
		a, b := insights[i], insights[j]
		if a.RequiresAttention != b.RequiresAttention {
			return a.RequiresAttention
		}
		if a.urgency != b.urgency {
			return a.urgency > b.urgency
		}
		return a.createdAt.Before(b.createdAt)
	})

	resp := InsightsResponse{
		TotalPending: len(pending),
		GeneratedAt:  now,
	}
	for _, in := range insights {
		if in.RequiresAttention {
			resp.HighPriority++
		}
	}
	if len(insights) > limit {
		insights = insights[:limit]
	}
	resp.Insights = insights
	return resp, nil
}

func (s *service) insightOf(l leave.Leave, names map[string]string, now time.Time) Insight {
	age := now.Sub(l.CreatedAt)
	summary := l.Summary()
	in := Insight{
		LeaveID:   summary.ID,
		Employee:  names[l.EmployeeID.String()],
		Type:      l.Type,
		StartDate: summary.StartDate,
		EndDate:   summary.EndDate,
		DaysAgo:   int(age.Hours() / 24),
		createdAt: l.CreatedAt,
	}
	if a, ok := l.Analysis(); ok {
		in.AIAnalysis = &a
		in.urgency = a.Urgency
	}
	if r, ok := l.Recommendation(); ok {
		in.ManagerRecommendation = &r
	}
	in.RequiresAttention = in.urgency >= attentionUrgency || age > attentionAge
	return in
}
