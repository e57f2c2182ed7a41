package scheduler

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"smarttrader/internal/model"
	"smarttrader/internal/notifier"
	"smarttrader/internal/recorder"
	"smarttrader/internal/strategy"

	"github.com/robfig/cron/v3"
)

// Forecaster is the pipeline surface the scheduled jobs drive.
type Forecaster interface {
	Predict(ctx context.Context, ticker, asOfDate string) (*model.Forecast, error)
	Actual(ctx context.Context, ticker, asOfDate string) ([]model.Bar, error)
	ModelName() string
}

// JitterSchedule fires a random delay in [Min, Max] after each run.
type JitterSchedule struct {
	Min, Max time.Duration
}

func (j JitterSchedule) Next(t time.Time) time.Time {
	d := j.Min
	if span := j.Max - j.Min; span > 0 {
		d += time.Duration(rand.Int63n(int64(span) + 1))
	}
	return t.Add(d)
}

// Scheduler manages the keep-alive loop and the forecast digest.
type Scheduler struct {
	Cron       *cron.Cron
	Forecaster Forecaster
	Notifier   *notifier.TelegramNotifier
	Recorder   recorder.Recorder
	Client     *http.Client
	Ctx        context.Context
	// JobTimeout bounds a single digest or command run.
	JobTimeout time.Duration
	Now        func() time.Time
}

// NewScheduler creates a new Scheduler. tn may be nil when Telegram is not configured.
func NewScheduler(ctx context.Context, fc Forecaster, tn *notifier.TelegramNotifier, rec recorder.Recorder) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Forecaster: fc,
		Notifier:   tn,
		Recorder:   rec,
		Client:     &http.Client{Timeout: 30 * time.Second},
		Ctx:        ctx,
		JobTimeout: time.Minute,
		Now:        time.Now,
	}
}

// RegisterKeepAlive pings url on a jittered interval so idle hosts keep the process warm.
func (s *Scheduler) RegisterKeepAlive(url string, minInterval, maxInterval time.Duration) error {
	if url == "" {
		return fmt.Errorf("keep-alive url is empty")
	}
	if minInterval <= 0 || maxInterval < minInterval {
		return fmt.Errorf("invalid keep-alive interval [%v, %v]", minInterval, maxInterval)
	}
	s.Cron.Schedule(JitterSchedule{Min: minInterval, Max: maxInterval}, cron.FuncJob(func() {
		if err := s.Ping(s.Ctx, url); err != nil {
			log.Printf("[WARN] keep-alive ping failed: %v", err)
		}
	}))
	log.Printf("[INFO] keep-alive registered: %s every %v-%v", url, minInterval, maxInterval)
	return nil
}

// RegisterDigest runs the forecast for ticker on the given cron spec.
func (s *Scheduler) RegisterDigest(spec, ticker string) error {
	if _, err := s.Cron.AddFunc(spec, func() { s.RunDigest(ticker) }); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	log.Printf("[INFO] digest registered: %q for %s", spec, ticker)
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// Ping issues a GET to url and fails on non-2xx.
func (s *Scheduler) Ping(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build ping: %w", err)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("ping %s: %w", url, err)
	}
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("ping %s: status %d", url, resp.StatusCode)
	}
	log.Printf("[INFO] keep-alive ping ok: %s", url)
	return nil
}

func (s *Scheduler) today() string {
	return s.Now().Format(model.DateLayout)
}

// RunDigest forecasts from today, records the run and pushes it to Telegram.
func (s *Scheduler) RunDigest(ticker string) {
	log.Printf("[INFO] running digest for %s", ticker)
	ctx, cancel := context.WithTimeout(s.Ctx, s.JobTimeout)
	defer cancel()

	fc, sum, err := s.predict(ctx, recorder.OriginDigest, ticker, s.today())
	if err != nil {
		log.Printf("[ERROR] digest forecast: %v", err)
		s.trySend(ctx, fmt.Sprintf("❌ forecast digest failed: %v", err))
		return
	}
	s.trySend(ctx, notifier.FormatDigest(fc, sum))
}

// HandleCommand processes a Telegram command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	ctx, cancel := context.WithTimeout(ctx, s.JobTimeout)
	defer cancel()

	args := fields[1:]
	switch fields[0] {
	case "/predict":
		date, ticker := s.today(), ""
		if len(args) > 0 {
			date = args[0]
		}
		if len(args) > 1 {
			ticker = args[1]
		}
		fc, sum, err := s.predict(ctx, recorder.OriginBot, ticker, date)
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		return notifier.FormatDigest(fc, sum)
	case "/compare":
		if len(args) == 0 {
			return "usage: /compare YYYY-MM-DD [TICKER]"
		}
		ticker := ""
		if len(args) > 1 {
			ticker = args[1]
		}
		fc, err := s.Forecaster.Predict(ctx, ticker, args[0])
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		actual, err := s.Forecaster.Actual(ctx, ticker, args[0])
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		return notifier.FormatComparison(fc, actual)
	case "/history":
		recs, err := s.Recorder.RecentPredictions(5)
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		if len(recs) == 0 {
			return "no predictions recorded yet"
		}
		var b strings.Builder
		for _, r := range recs {
			b.WriteString(fmt.Sprintf("%s %s as of %s: avg %.2f (%s)\n",
				r.CreatedAt.Format("01-02 15:04"), r.Ticker, r.AsOf, r.Summary.Avg, r.Origin))
		}
		return b.String()
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) predict(ctx context.Context, origin recorder.Origin, ticker, date string) (*model.Forecast, *model.Summary, error) {
	fc, err := s.Forecaster.Predict(ctx, ticker, date)
	if err != nil {
		return nil, nil, err
	}
	sum := strategy.Summarize(fc)
	if err := s.Recorder.RecordPrediction(recorder.NewRecord(origin, s.Forecaster.ModelName(), fc, sum)); err != nil {
		log.Printf("[ERROR] record prediction: %v", err)
	}
	return fc, sum, nil
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
