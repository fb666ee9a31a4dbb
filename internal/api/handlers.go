package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/manav03panchal/plantcare/internal/errors"
	"github.com/manav03panchal/plantcare/internal/logging"
	"github.com/manav03panchal/plantcare/internal/model"
	"github.com/manav03panchal/plantcare/internal/output"
	"github.com/manav03panchal/plantcare/internal/validate"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

// CreateRequest is the body of POST /api/plants.
type CreateRequest struct {
	Owner                 string     `json:"owner"`
	Name                  string     `json:"name"`
	Species               string     `json:"species"`
	Emoji                 string     `json:"emoji"`
	WateringFrequencyDays float64    `json:"watering_frequency_days"`
	LastWatered           *time.Time `json:"last_watered,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case stderrors.Is(err, errors.ErrPlantNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, errors.ErrWriteConflict), stderrors.Is(err, errors.ErrDuplicatePlant):
		return http.StatusConflict
	case errors.IsUserError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := output.ErrorResponse{Status: "error", Error: err.Error(), Message: errors.GetSuggestion(err)}
	if status == http.StatusInternalServerError {
		logging.ErrorContext(r.Context(), "request failed", logging.KeyError, err)
		body.Error = "internal error"
	}
	writeJSON(w, status, body)
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.NewUserError("Request body is not valid JSON: "+err.Error(),
			"Send a JSON object with the documented fields").WithCause(err)
	}
	return nil
}

// plantOut renders p with derived values, logging malformed records.
func (s *Server) plantOut(r *http.Request, p model.Plant, now time.Time) *output.PlantOutput {
	if !p.HasValidHealth() {
		logging.MalformedPlant(r.Context(), p.ID, "api")
	}
	return output.NewPlantOutput(p, now)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) createPlant(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	now := s.now()
	name := validate.SanitizeName(req.Name)
	if req.WateringFrequencyDays == 0 {
		req.WateringFrequencyDays = model.DefaultWateringFrequencyDays
	}
	if req.Emoji == "" {
		req.Emoji = model.DefaultEmoji
	}
	if err := validate.NonEmpty("owner", req.Owner); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validate.Plant(name, req.Species, req.Emoji, req.WateringFrequencyDays); err != nil {
		s.writeError(w, r, err)
		return
	}

	watered := now
	if req.LastWatered != nil {
		if req.LastWatered.After(now) {
			s.writeError(w, r, errors.NewUserError("last_watered is in the future",
				errors.GetSuggestion(errors.ErrWateredInFuture)).WithCause(errors.ErrWateredInFuture))
			return
		}
		watered = *req.LastWatered
	}

	plant := model.NewPlantAt(name, req.Species, req.Emoji, req.WateringFrequencyDays, watered)
	plant.Owner = req.Owner
	if err := s.plants.Create(plant); err != nil {
		s.writeError(w, r, err)
		return
	}

	logging.LoggerFromContext(r.Context()).Info("plant created", logging.KeyPlantID, plant.ID)
	writeJSON(w, http.StatusCreated, s.plantOut(r, plant, now))
}

func (s *Server) listPlants(w http.ResponseWriter, r *http.Request) {
	plants, err := s.plants.ListByOwner(mux.Vars(r)["owner"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	now := s.now()
	out := make([]*output.PlantOutput, 0, len(plants))
	for _, p := range plants {
		out = append(out, s.plantOut(r, p, now))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) waterPlant(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	_, after, err := s.plants.Water(mux.Vars(r)["id"], now)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	logging.LoggerFromContext(r.Context()).Info("plant watered",
		logging.KeyPlantID, after.ID, "streak", after.WateringStreak)
	writeJSON(w, http.StatusOK, s.plantOut(r, after, now))
}

func (s *Server) updatePlant(w http.ResponseWriter, r *http.Request) {
	var update model.PlantUpdate
	if err := decode(w, r, &update); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validate.Update(&update); err != nil {
		s.writeError(w, r, err)
		return
	}

	_, after, err := s.plants.Edit(mux.Vars(r)["id"], update)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.plantOut(r, after, s.now()))
}

func (s *Server) deletePlant(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.plants.Delete(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, output.DeleteResponse{Status: "deleted", ID: id})
}
