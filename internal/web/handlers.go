package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"todo-app/internal/domain"
	apperrors "todo-app/internal/errors"
	"todo-app/internal/logging"
)

const maxBodyBytes = 1 << 20

type taskPage struct {
	Tasks []domain.Task
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/tasks", http.StatusFound)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.repo.ListTasks(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "tasks.html", taskPage{Tasks: tasks}); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	input, err := decodeNewTask(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	task, err := s.repo.CreateTask(r.Context(), input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	logging.Debugf("[%s] created task %d", requestIDFrom(r.Context()), task.ID)
	http.Redirect(w, r, "/tasks", http.StatusFound)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := s.validator.ParseTaskID(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if _, err := s.repo.DeleteTask(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	http.Redirect(w, r, "/tasks", http.StatusFound)
}

// decodeNewTask reads the create fields from a JSON body or from form fields.
// Absent fields are left empty.
func decodeNewTask(w http.ResponseWriter, r *http.Request) (domain.NewTask, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var input domain.NewTask
		// An empty body is an empty object
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil && !errors.Is(err, io.EOF) {
			return domain.NewTask{}, apperrors.NewBadRequestError("body", nil, "malformed JSON")
		}
		return input, nil
	}

	// PostFormValue handles both urlencoded and multipart bodies
	input := domain.NewTask{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Status:      r.PostFormValue("status"),
	}
	return input, nil
}

// writeError sends the user-facing message for err. Storage details stay in
// the log.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	if apperrors.ShouldLogError(err) {
		logging.Errorf("[%s] %s %s: %v", requestIDFrom(r.Context()), r.Method, r.URL.Path, err)
	}
	http.Error(w, apperrors.GetUserMessage(err), status)
}

func (s *Server) writeAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	if apperrors.ShouldLogError(err) {
		logging.Errorf("[%s] %s %s: %v", requestIDFrom(r.Context()), r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, map[string]string{
		"error": apperrors.GetUserMessage(err),
		"code":  apperrors.GetErrorCode(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, _ := json.Marshal(payload)
	writeRawJSON(w, status, data)
}

func writeRawJSON(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
