package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jonwraymond/drugsafety/observe"
	"github.com/jonwraymond/drugsafety/safety"
)

// Tool names as exposed on the wire and in telemetry.
const (
	toolProfile = "drug_safety_profile"
	toolRecalls = "drug_recalls"
	toolCompare = "compare_drug_safety"
)

// drugRequest is the body for the single-drug tools.
type drugRequest struct {
	DrugName string `json:"drug_name"`
}

// compareRequest is the body for the comparison tool.
type compareRequest struct {
	Drugs []string `json:"drugs"`
}

// profileResponse is a profile plus its freshness display string. The
// outer field shadows the embedded duration under the same name.
type profileResponse struct {
	safety.Profile
	DataFreshness string `json:"data_freshness"`
}

// recallsResponse projects the recall fields of a profile.
type recallsResponse struct {
	DrugName      string `json:"drug_name"`
	ActiveRecalls int    `json:"active_recalls"`
	Status        string `json:"status"`
	DataFreshness string `json:"data_freshness"`
	Cached        bool   `json:"cached"`
}

func (s *Server) handleProfile() http.HandlerFunc {
	exec := s.exec.Wrap(func(ctx context.Context, meta observe.QueryMeta, input any) (any, error) {
		prof, err := s.resolver.Resolve(ctx, input.(string))
		if err != nil {
			return nil, err
		}
		return profileResponse{Profile: *prof, DataFreshness: freshnessLine(prof)}, nil
	})

	return func(w http.ResponseWriter, r *http.Request) {
		var req drugRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.DrugName) == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error: "drug_name is required",
				Kind:  kindInvalidInput,
			})
			return
		}

		meta := observe.QueryMeta{Tool: toolProfile, Drugs: []string{req.DrugName}}
		result, err := exec(r.Context(), meta, req.DrugName)
		if err != nil {
			writeToolError(w, err, meta.Drugs)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) handleRecalls() http.HandlerFunc {
	exec := s.exec.Wrap(func(ctx context.Context, meta observe.QueryMeta, input any) (any, error) {
		prof, err := s.resolver.Resolve(ctx, input.(string))
		if err != nil {
			return nil, err
		}
		return recallsResponse{
			DrugName:      prof.DrugName,
			ActiveRecalls: prof.ActiveRecalls,
			Status:        recallStatusLine(prof),
			DataFreshness: freshnessLine(prof),
			Cached:        prof.Cached,
		}, nil
	})

	return func(w http.ResponseWriter, r *http.Request) {
		var req drugRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.DrugName) == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error: "drug_name is required",
				Kind:  kindInvalidInput,
			})
			return
		}

		meta := observe.QueryMeta{Tool: toolRecalls, Drugs: []string{req.DrugName}}
		result, err := exec(r.Context(), meta, req.DrugName)
		if err != nil {
			writeToolError(w, err, meta.Drugs)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) handleCompare() http.HandlerFunc {
	exec := s.exec.Wrap(func(ctx context.Context, meta observe.QueryMeta, input any) (any, error) {
		return s.comparator.Compare(ctx, input.([]string))
	})

	return func(w http.ResponseWriter, r *http.Request) {
		var req compareRequest
		if !decodeRequest(w, r, &req) {
			return
		}

		meta := observe.QueryMeta{Tool: toolCompare, Drugs: req.Drugs}
		result, err := exec(r.Context(), meta, req.Drugs)
		if err != nil {
			writeToolError(w, err, req.Drugs)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// freshnessLine renders a profile's age for display.
func freshnessLine(prof *safety.Profile) string {
	if !prof.Cached {
		return "Just fetched from FDA"
	}
	return fmt.Sprintf("%d hour(s) old (cached)", int(prof.DataFreshness.Hours()))
}

// recallStatusLine summarizes the active recall count.
func recallStatusLine(prof *safety.Profile) string {
	if prof.ActiveRecalls == 0 {
		return fmt.Sprintf("No active recalls found for %s", prof.DrugName)
	}
	return fmt.Sprintf("%d active recall(s) found", prof.ActiveRecalls)
}
