package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"summitreg/internal/jobs"
)

// badgeJobTimeout bounds a full print run; even thousands of badges finish
// well inside this.
const badgeJobTimeout = 2 * time.Hour

// StartBadgeJob kicks off background rendering of every unprinted badge and
// returns the job id to poll.
func StartBadgeJob(w http.ResponseWriter, r *http.Request) {
	if Progress == nil {
		writeError(w, http.StatusServiceUnavailable, "job tracking is not configured")
		return
	}

	jobID := uuid.New().String()
	proc := jobs.NewProcessor(Renderer, Source, Cfg.BadgeOut, Log)
	proc.Progress = Progress

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), badgeJobTimeout)
		defer cancel()
		if _, err := proc.Run(ctx, jobID); err != nil {
			Log.Error("badge job aborted", "job_id", jobID, "error", err)
		}
	}()

	writeJSONResp(w, http.StatusAccepted, map[string]any{
		"job_id": jobID,
		"status": "started",
	})
}

// BadgeJobStatus reports the live progress of a badge job.
func BadgeJobStatus(w http.ResponseWriter, r *http.Request) {
	if Progress == nil {
		writeError(w, http.StatusServiceUnavailable, "job tracking is not configured")
		return
	}

	jobID := pathParam(r, "id")
	state, err := Progress.Get(r.Context(), jobID)
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown job id")
		return
	}
	writeJSONResp(w, http.StatusOK, state)
}
