package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"quizsalon/internal/application/usecases"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"
)

const qrCodeSize = 256

type SalonHandler struct {
	lifecycle *usecases.LifecycleUseCases
	publicURL string
}

// NewSalonHandler recebe a URL pública usada nos convites por QR code.
func NewSalonHandler(lifecycle *usecases.LifecycleUseCases, publicURL string) *SalonHandler {
	return &SalonHandler{lifecycle: lifecycle, publicURL: strings.TrimRight(publicURL, "/")}
}

// ListOpen godoc
// @Summary Lista os salões abertos
// @Description Salões personalizados que ainda não começaram (o mesmo conteúdo de salons_init).
// @Tags Salons
// @Produce json
// @Success 200 {array} salon.Room
// @Router /salons [get]
func (h *SalonHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.lifecycle.OpenRooms(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

// GetSalon godoc
// @Summary Obtém dados do salão
// @Tags Salons
// @Produce json
// @Param id path int true "Salon ID"
// @Success 200 {object} salon.Room
// @Failure 404 "Salão não encontrado"
// @Router /salons/{id} [get]
func (h *SalonHandler) GetSalon(w http.ResponseWriter, r *http.Request) {
	id, ok := salonID(w, r)
	if !ok {
		return
	}

	room, err := h.lifecycle.GetRoom(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// QRCode godoc
// @Summary QR code de convite
// @Description PNG que codifica PUBLIC_URL/salons/{id}.
// @Tags Salons
// @Produce png
// @Param id path int true "Salon ID"
// @Success 200 {file} binary
// @Failure 404 "Salão não encontrado"
// @Router /salons/{id}/qrcode [get]
func (h *SalonHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	id, ok := salonID(w, r)
	if !ok {
		return
	}
	if _, err := h.lifecycle.GetRoom(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	png, err := qrcode.Encode(fmt.Sprintf("%s/salons/%d", h.publicURL, id), qrcode.Medium, qrCodeSize)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func salonID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(w, "identifiant de salon invalide")
		return 0, false
	}
	return id, true
}
