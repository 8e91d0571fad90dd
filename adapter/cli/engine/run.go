// Package engine implements the healthsched scheduling subcommands: run,
// validate, report, and health.
package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/healthsched/adapter/cli"
	"github.com/felixgeelhaar/healthsched/internal/scheduling/application/services"
	"github.com/felixgeelhaar/healthsched/internal/scheduling/domain"
	"github.com/felixgeelhaar/healthsched/internal/scheduling/infrastructure/cache"
	"github.com/felixgeelhaar/healthsched/internal/scheduling/infrastructure/jsonio"
	"github.com/felixgeelhaar/healthsched/internal/shared/infrastructure/security"
	"github.com/felixgeelhaar/healthsched/pkg/observability"
)

var (
	runHorizonDays int
	runStartDate   string
)

// RunCmd executes the scheduling engine over a loaded input set and writes
// the schedule, failure report, and statistics artifacts.
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the 90-day scheduling engine over activities, specialists, equipment, and travel",
	Long: `run loads activities.json, specialists.json, equipment.json, and
travel.json from the configured input paths, runs the constraint-aware
greedy scheduler over the horizon, and writes schedule.json,
failures.json, and statistics.json to the configured output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			return fmt.Errorf("run: no application context configured")
		}
		cfg := app.Config
		logger := app.Logger

		horizonDays := cfg.HorizonDays
		if runHorizonDays > 0 {
			horizonDays = runHorizonDays
		}

		startDate, err := resolveStartDate(cfg.HorizonStartDate, runStartDate)
		if err != nil {
			return err
		}

		activities, err := jsonio.LoadActivities(cfg.ActivitiesPath)
		if err != nil {
			return fmt.Errorf("load activities: %w", err)
		}
		specialists, err := jsonio.LoadSpecialists(cfg.SpecialistsPath)
		if err != nil {
			return fmt.Errorf("load specialists: %w", err)
		}
		equipment, err := jsonio.LoadEquipment(cfg.EquipmentPath)
		if err != nil {
			return fmt.Errorf("load equipment: %w", err)
		}
		travel, err := jsonio.LoadTravel(cfg.TravelPath)
		if err != nil {
			return fmt.Errorf("load travel: %w", err)
		}

		checkMetadataSidecar(cfg.MetadataPath, startDate, horizonDays, logger)

		digest, err := inputDigest(cfg.ActivitiesPath, cfg.SpecialistsPath, cfg.EquipmentPath, cfg.TravelPath)
		if err != nil {
			return fmt.Errorf("compute input digest: %w", err)
		}

		ctx := cmd.Context()
		timer := observability.StartTimer("scheduling.run").WithLogger(logger).WithMetrics(app.Metrics)

		// The schedule depends on the start date as well as the inputs and
		// horizon, so the cache key carries it too.
		cacheKey := digest + ":" + startDate.Format()

		if app.Cache != nil {
			if cached, ok := tryCachedArtifacts(ctx, app.Cache, cfg.OutputDir, cacheKey, horizonDays); ok {
				timer.Stop()
				fmt.Printf("Reused cached result for this input set (%d slots, %d activities with rejected candidates)\n",
					cached.SlotCount, cached.FailedCount)
				fmt.Printf("Wrote schedule, failures, and statistics to %s\n", cfg.OutputDir)
				return nil
			}
		}

		run := domain.NewRun(startDate, horizonDays, digest)

		scheduler := services.NewScheduler(activities, specialists, equipment, travel, startDate, horizonDays)
		state := scheduler.Schedule()
		run.Complete(state)

		if err := writeArtifacts(cfg.OutputDir, state, activities); err != nil {
			timer.StopWithError(err)
			return fmt.Errorf("write artifacts: %w", err)
		}

		if app.Cache != nil {
			storeCachedArtifacts(ctx, app.Cache, cfg.OutputDir, cacheKey, horizonDays, state, logger)
		}

		if app.RunRepo != nil {
			if err := app.RunRepo.Save(ctx, run); err != nil {
				logger.Warn("failed to persist run history", "error", err)
			}
		}

		if app.EventPublisher != nil {
			for _, event := range run.DomainEvents() {
				if completed, ok := event.(domain.RunCompletedEvent); ok {
					if err := app.EventPublisher.Publish(ctx, completed); err != nil {
						logger.Warn("failed to publish run completed event", "error", err)
					}
				}
			}
		}

		stats := state.ComputeStatistics()
		app.Metrics.Counter(observability.MetricRunsExecuted, 1)
		app.Metrics.Counter(observability.MetricSlotsBooked, int64(stats.TotalSlots))
		app.Metrics.Counter(observability.MetricBookingsFailed, int64(stats.FailedCount))
		timer.Stop()

		fmt.Printf("Scheduled %d slots across %d activities (%d activities with rejected candidates)\n",
			stats.TotalSlots, stats.UniqueActivities, stats.FailedCount)
		fmt.Printf("Wrote schedule, failures, and statistics to %s\n", cfg.OutputDir)

		return nil
	},
}

// cachedArtifactBundle holds the three output artifacts as raw JSON bytes
// alongside the headline counts needed for the run summary, so a cache hit
// never has to re-parse the artifacts it is about to write back out.
type cachedArtifactBundle struct {
	Schedule    json.RawMessage `json:"schedule"`
	Failures    json.RawMessage `json:"failures"`
	Statistics  json.RawMessage `json:"statistics"`
	SlotCount   int             `json:"slot_count"`
	FailedCount int             `json:"failed_count"`
}

// tryCachedArtifacts looks up a previously computed result for this exact
// cache key (input digest and start date) and horizon, writing it straight
// back out to outputDir without invoking the scheduler.
func tryCachedArtifacts(ctx context.Context, resultCache *cache.ResultCache, outputDir, digest string, horizonDays int) (cachedArtifactBundle, bool) {
	payload, err := resultCache.Get(ctx, digest, horizonDays)
	if err != nil {
		return cachedArtifactBundle{}, false
	}
	var bundle cachedArtifactBundle
	if err := json.Unmarshal(payload, &bundle); err != nil {
		return cachedArtifactBundle{}, false
	}
	if err := security.SafeWriteFile(filepath.Join(outputDir, "schedule.json"), bundle.Schedule); err != nil {
		return cachedArtifactBundle{}, false
	}
	if err := security.SafeWriteFile(filepath.Join(outputDir, "failures.json"), bundle.Failures); err != nil {
		return cachedArtifactBundle{}, false
	}
	if err := security.SafeWriteFile(filepath.Join(outputDir, "statistics.json"), bundle.Statistics); err != nil {
		return cachedArtifactBundle{}, false
	}
	return bundle, true
}

// storeCachedArtifacts reads the artifacts just written to outputDir back
// into a bundle and stores them under the cache key for future runs.
// Failures here are logged and swallowed: the artifacts on disk are already
// correct regardless of whether the cache write succeeds.
func storeCachedArtifacts(ctx context.Context, resultCache *cache.ResultCache, outputDir, digest string, horizonDays int, state *domain.SchedulerState, logger *slog.Logger) {
	stats := state.ComputeStatistics()
	schedule, err := security.SafeReadFile(filepath.Join(outputDir, "schedule.json"))
	if err != nil {
		logger.Warn("failed to read schedule artifact for caching", "error", err)
		return
	}
	failures, err := security.SafeReadFile(filepath.Join(outputDir, "failures.json"))
	if err != nil {
		logger.Warn("failed to read failures artifact for caching", "error", err)
		return
	}
	statistics, err := security.SafeReadFile(filepath.Join(outputDir, "statistics.json"))
	if err != nil {
		logger.Warn("failed to read statistics artifact for caching", "error", err)
		return
	}
	bundle := cachedArtifactBundle{
		Schedule:    schedule,
		Failures:    failures,
		Statistics:  statistics,
		SlotCount:   stats.TotalSlots,
		FailedCount: stats.FailedCount,
	}
	payload, err := json.Marshal(bundle)
	if err != nil {
		logger.Warn("failed to marshal artifact bundle for caching", "error", err)
		return
	}
	resultCache.Set(ctx, digest, horizonDays, payload)
}

// checkMetadataSidecar loads the optional metadata sidecar, if present, and
// warns when its informational start date/duration drift from what this run
// actually used. The sidecar is never authoritative and a missing or
// unparsable file never fails the run.
func checkMetadataSidecar(path string, startDate domain.Date, horizonDays int, logger *slog.Logger) {
	metadata, err := jsonio.LoadMetadata(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("failed to parse metadata sidecar", "path", path, "error", err)
		}
		return
	}
	if metadata.DurationDays != 0 && metadata.DurationDays != horizonDays {
		logger.Warn("metadata sidecar duration_days does not match this run",
			"path", path, "metadata_duration_days", metadata.DurationDays, "run_duration_days", horizonDays)
	}
	if metadata.StartDate != "" && metadata.StartDate != startDate.Format() {
		logger.Warn("metadata sidecar start_date does not match this run",
			"path", path, "metadata_start_date", metadata.StartDate, "run_start_date", startDate.Format())
	}
}

func resolveStartDate(configured, flag string) (domain.Date, error) {
	value := flag
	if value == "" {
		value = configured
	}
	if value == "" {
		return domain.DateFromTime(time.Now()), nil
	}
	return domain.ParseDate(value)
}

func writeArtifacts(outputDir string, state *domain.SchedulerState, activities []*domain.Activity) error {
	lookup := make(map[string]jsonio.ActivityLookup, len(activities))
	for _, a := range activities {
		lookup[a.ID()] = a
	}

	if err := jsonio.WriteSchedule(filepath.Join(outputDir, "schedule.json"), state); err != nil {
		return err
	}
	if err := jsonio.WriteFailureReport(filepath.Join(outputDir, "failures.json"), state, lookup); err != nil {
		return err
	}
	if err := jsonio.WriteStatistics(filepath.Join(outputDir, "statistics.json"), state); err != nil {
		return err
	}
	return nil
}

func inputDigest(paths ...string) (string, error) {
	hasher := sha256.New()
	for _, path := range paths {
		data, err := security.SafeReadFile(path)
		if err != nil {
			return "", err
		}
		hasher.Write(data)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func init() {
	RunCmd.Flags().IntVar(&runHorizonDays, "horizon-days", 0, "override the configured horizon length in days")
	RunCmd.Flags().StringVar(&runStartDate, "start-date", "", "override the configured horizon start date (YYYY-MM-DD)")
}
