package api

import (
	"errors"
	"net/http"
	"strconv"

	"flashcards/internal/domain"
)

// UploadResponse is returned after a successful upload
type UploadResponse struct {
	Message string `json:"message"`
	Words   int    `json:"words"`
	Units   int    `json:"units"`
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large.")
			return
		}
		writeError(w, http.StatusBadRequest, "A file must be uploaded in the \"file\" field.")
		return
	}
	defer file.Close()

	result, err := h.dictService.Import(header.Filename, file)
	if err != nil {
		h.fail(w, r, err, "Error occurred while converting the upload.")
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		Message: "File uploaded and processed successfully",
		Words:   result.Words,
		Units:   result.Units,
	})
}

func (h *Handler) listUnits(w http.ResponseWriter, r *http.Request) {
	units, err := h.dictService.ListUnits()
	if err != nil {
		h.fail(w, r, err, "Error occurred while reading directory.")
		return
	}
	if units == nil {
		units = []string{}
	}
	writeJSON(w, http.StatusOK, units)
}

func (h *Handler) getUnit(w http.ResponseWriter, r *http.Request) {
	words, err := h.dictService.GetUnit(r.PathValue("unit"))
	if err != nil {
		h.fail(w, r, err, "Error occurred while reading file.")
		return
	}
	if words == nil {
		words = []domain.Word{}
	}
	writeJSON(w, http.StatusOK, words)
}

func (h *Handler) deleteWord(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid word index.")
		return
	}

	if err := h.dictService.DeleteWord(r.PathValue("unit"), index); err != nil {
		h.fail(w, r, err, "Error occurred while writing JSON file.")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Word deleted successfully."})
}
