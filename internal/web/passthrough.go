package web

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	apperrors "todo-app/internal/errors"
	"todo-app/internal/logging"
	"todo-app/internal/store"
)

// item is one element of a passthrough collection
type item map[string]json.RawMessage

func (s *Server) handleAPIDatabase(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.ReadDocument(r.Context())
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}
	data, err := doc.Marshal()
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}
	logging.Debugf("[%s] api db: resources %s", requestIDFrom(r.Context()), strings.Join(doc.Names(), ","))
	writeRawJSON(w, http.StatusOK, data)
}

func (s *Server) handleAPIGetResource(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("resource")
	if err := s.validator.ValidateResourceName(name); err != nil {
		s.writeAPIError(w, r, err)
		return
	}

	doc, err := s.store.ReadDocument(r.Context())
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}
	raw, ok := doc.Field(name)
	if !ok {
		s.writeAPIError(w, r, apperrors.NewNotFoundError("resource", name))
		return
	}
	writeRawJSON(w, http.StatusOK, raw)
}

func (s *Server) handleAPIGetItem(w http.ResponseWriter, r *http.Request) {
	name, id := r.PathValue("resource"), r.PathValue("id")
	if err := s.validator.ValidateResourceName(name); err != nil {
		s.writeAPIError(w, r, err)
		return
	}

	doc, err := s.store.ReadDocument(r.Context())
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}
	items, err := collection(doc, name)
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}
	i := indexOf(items, id)
	if i < 0 {
		s.writeAPIError(w, r, apperrors.NewNotFoundError(name, id))
		return
	}
	writeJSON(w, http.StatusOK, items[i])
}

func (s *Server) handleAPICreateItem(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("resource")
	if err := s.validator.ValidateResourceName(name); err != nil {
		s.writeAPIError(w, r, err)
		return
	}
	body, err := decodeItem(w, r)
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}

	err = s.store.MutateDocument(r.Context(), func(doc *store.Document) error {
		items, err := collection(doc, name)
		if apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound) {
			items = []item{}
		} else if err != nil {
			return err
		}

		if raw, ok := body["id"]; ok {
			if indexOf(items, idKey(raw)) >= 0 {
				return apperrors.NewBadRequestError("id", idKey(raw), "duplicate id")
			}
		} else {
			body["id"] = json.RawMessage(strconv.FormatInt(nextNumericID(items), 10))
		}

		return setCollection(doc, name, append(items, body))
	})
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, body)
}

func (s *Server) handleAPIReplaceItem(w http.ResponseWriter, r *http.Request) {
	s.updateItem(w, r, func(existing, body item) item {
		body["id"] = existing["id"]
		return body
	})
}

func (s *Server) handleAPIPatchItem(w http.ResponseWriter, r *http.Request) {
	s.updateItem(w, r, func(existing, body item) item {
		merged := make(item, len(existing)+len(body))
		for k, v := range existing {
			merged[k] = v
		}
		for k, v := range body {
			merged[k] = v
		}
		merged["id"] = existing["id"]
		return merged
	})
}

func (s *Server) updateItem(w http.ResponseWriter, r *http.Request, apply func(existing, body item) item) {
	name, id := r.PathValue("resource"), r.PathValue("id")
	if err := s.validator.ValidateResourceName(name); err != nil {
		s.writeAPIError(w, r, err)
		return
	}
	body, err := decodeItem(w, r)
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}

	var updated item
	err = s.store.MutateDocument(r.Context(), func(doc *store.Document) error {
		items, err := collection(doc, name)
		if err != nil {
			return err
		}
		i := indexOf(items, id)
		if i < 0 {
			return apperrors.NewNotFoundError(name, id)
		}
		updated = apply(items[i], body)
		items[i] = updated
		return setCollection(doc, name, items)
	})
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleAPIDeleteItem(w http.ResponseWriter, r *http.Request) {
	name, id := r.PathValue("resource"), r.PathValue("id")
	if err := s.validator.ValidateResourceName(name); err != nil {
		s.writeAPIError(w, r, err)
		return
	}

	err := s.store.MutateDocument(r.Context(), func(doc *store.Document) error {
		items, err := collection(doc, name)
		if err != nil {
			return err
		}
		i := indexOf(items, id)
		if i < 0 {
			return apperrors.NewNotFoundError(name, id)
		}
		return setCollection(doc, name, append(items[:i], items[i+1:]...))
	})
	if err != nil {
		s.writeAPIError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

// collection decodes a top-level field as an array of objects. An absent
// field is NotFound; any other shape is a BadRequest since the caller asked
// for item-level access.
func collection(doc *store.Document, name string) ([]item, error) {
	raw, ok := doc.Field(name)
	if !ok {
		return nil, apperrors.NewNotFoundError("resource", name)
	}
	var items []item
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, apperrors.NewBadRequestError("resource", name, "not a collection")
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, apperrors.NewBadRequestError("resource", name, "not a collection of objects")
	}
	return items, nil
}

func setCollection(doc *store.Document, name string, items []item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return apperrors.NewStorageWriteError("encode "+name, err)
	}
	doc.SetField(name, raw)
	return nil
}

func indexOf(items []item, id string) int {
	for i, it := range items {
		if raw, ok := it["id"]; ok && idKey(raw) == id {
			return i
		}
	}
	return -1
}

// idKey renders an id the way it appears in a URL path: numbers as written,
// strings unquoted.
func idKey(raw json.RawMessage) string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return string(raw)
	}
	switch id := v.(type) {
	case json.Number:
		return id.String()
	case string:
		return id
	default:
		return string(bytes.TrimSpace(raw))
	}
}

// nextNumericID is one past the largest numeric id. When that would overflow
// it is the smallest positive id not in use.
func nextNumericID(items []item) int64 {
	var highest int64
	for _, it := range items {
		if n, err := strconv.ParseInt(idKey(it["id"]), 10, 64); err == nil && n > highest {
			highest = n
		}
	}
	if highest < math.MaxInt64 {
		return highest + 1
	}
	id := int64(1)
	for indexOf(items, strconv.FormatInt(id, 10)) >= 0 {
		id++
	}
	return id
}

func decodeItem(w http.ResponseWriter, r *http.Request) (item, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var body item
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body == nil {
		return nil, apperrors.NewBadRequestError("body", nil, "expected a JSON object")
	}
	return body, nil
}
