package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"auraclick/config"
	"auraclick/platform"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter) {
	writeJSON(w, map[string]string{"status": "success"})
}

// handleConfig handles GET and PUT requests for configuration
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, s.ctrl.Config())
	case http.MethodPut:
		s.handlePutConfig(w, r)
	case http.MethodPost:
		// POST /api/config means reload from disk.
		if err := s.ctrl.ReloadConfig(); err != nil {
			slog.Error("Failed to reload config", "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeOK(w)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handlePutConfig replaces the configuration wholesale.
func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	var cfg config.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.ctrl.UpdateConfig(&cfg); err != nil {
		var cfgErr *config.Error
		if errors.As(err, &cfgErr) {
			http.Error(w, cfgErr.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("Failed to save config", "error", err)
		http.Error(w, "Failed to save configuration", http.StatusInternalServerError)
		return
	}

	writeOK(w)
}

// handleListener starts, stops, pauses, or resumes the hotkey listener.
func (s *Server) handleListener(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var err error
	switch req.Action {
	case "start":
		err = s.ctrl.StartListener()
	case "stop":
		err = s.ctrl.StopListener()
	case "pause":
		s.ctrl.SetPaused(true)
	case "resume":
		s.ctrl.SetPaused(false)
	default:
		http.Error(w, "Unknown action", http.StatusBadRequest)
		return
	}

	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	writeJSON(w, s.ctrl.Status())
}

// handleStatus returns the current agent status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, s.ctrl.Status())
}

// handleProfiles lists profile names.
func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	names, err := s.ctrl.Profiles().List()
	if err != nil {
		slog.Error("Failed to list profiles", "error", err)
		http.Error(w, "Failed to list profiles", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"profiles": names})
}

// handleProfile activates, saves, or deletes one profile
// (/api/profiles/{name}).
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/api/profiles/")
	if name == "" || strings.Contains(name, "/") {
		http.Error(w, "Invalid profile name", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodPost:
		// Activate; with ?save=1, snapshot the current config instead.
		if r.URL.Query().Get("save") != "" {
			if err := s.ctrl.Profiles().Save(name, s.ctrl.Config()); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		} else if err := s.ctrl.ActivateProfile(name); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeOK(w)

	case http.MethodDelete:
		if err := s.ctrl.Profiles().Delete(name); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeOK(w)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleStats returns statistics for the specified time range
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	days := 7
	if d, err := strconv.Atoi(r.URL.Query().Get("days")); err == nil && d > 0 {
		days = d
	}

	overall, err := s.db.GetOverallStats(days)
	if err != nil {
		slog.Error("Failed to get overall stats", "error", err)
		http.Error(w, "Failed to get statistics", http.StatusInternalServerError)
		return
	}

	usage, err := s.db.GetHotkeyUsage(days)
	if err != nil {
		slog.Error("Failed to get hotkey usage", "error", err)
		http.Error(w, "Failed to get statistics", http.StatusInternalServerError)
		return
	}

	daily, err := s.db.GetDailyStats(days)
	if err != nil {
		slog.Error("Failed to get daily stats", "error", err)
		http.Error(w, "Failed to get statistics", http.StatusInternalServerError)
		return
	}

	recentErrors, err := s.db.GetRecentErrors(10)
	if err != nil {
		slog.Error("Failed to get recent errors", "error", err)
		http.Error(w, "Failed to get statistics", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"overall":      overall,
		"usage":        usage,
		"daily":        daily,
		"recentErrors": recentErrors,
	})
}

// handleHistory returns paginated execution history.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 50
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}
	offset := 0
	if o, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && o >= 0 {
		offset = o
	}

	executions, err := s.db.GetExecutions(limit, offset)
	if err != nil {
		slog.Error("Failed to get executions", "error", err)
		http.Error(w, "Failed to get history", http.StatusInternalServerError)
		return
	}

	total, err := s.db.GetExecutionCount()
	if err != nil {
		slog.Error("Failed to get execution count", "error", err)
		http.Error(w, "Failed to get history", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"executions": executions,
		"total":      total,
		"limit":      limit,
		"offset":     offset,
	})
}

// handleDeleteHistory deletes an execution by ID (/api/history/{id}).
func (s *Server) handleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	parts := strings.Split(r.URL.Path, "/")
	idStr := parts[len(parts)-1]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := s.db.DeleteExecution(id); err != nil {
		slog.Error("Failed to delete execution", "error", err, "id", id)
		http.Error(w, "Failed to delete execution", http.StatusInternalServerError)
		return
	}

	writeOK(w)
}

// handleWindows lists targetable windows (GET) and replaces the target
// selection (PUT).
func (s *Server) handleWindows(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		windows, err := s.ctrl.ListWindows()
		if err != nil {
			if errors.Is(err, platform.ErrUnsupported) {
				writeJSON(w, map[string]any{"supported": false, "windows": []platform.Window{}})
				return
			}
			slog.Error("Failed to list windows", "error", err)
			http.Error(w, "Failed to list windows", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{
			"supported": true,
			"windows":   windows,
			"targets":   s.ctrl.Targets(),
		})

	case http.MethodPut:
		var req struct {
			Targets []platform.Window `json:"targets"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		s.ctrl.SetTargets(req.Targets)
		writeOK(w)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
