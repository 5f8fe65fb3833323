package server

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"charityportal/internal/workflow"
	"charityportal/pkg/types"
)

const uploadField = "file"

var errNoFilePart = errors.New("multipart body has no file part")

func requirementID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("requirementID"), 10, 64)
}

// filePart streams the first "file" part of a multipart body. Its size is
// not known up front; the slot rules bound it while reading.
func filePart(r *http.Request) (*multipart.Part, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, err
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return nil, errNoFilePart
		}
		if err != nil {
			return nil, err
		}
		if part.FormName() == uploadField && part.FileName() != "" {
			return part, nil
		}
		_ = part.Close()
	}
}

func (s *Service) selectAttachment(w http.ResponseWriter, r *http.Request, owner workflow.Owner) {
	reqID, err := requirementID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid requirement id")
		return
	}

	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	part, err := filePart(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "a file is required")
		return
	}
	defer part.Close()

	upload := workflow.Upload{FileName: part.FileName(), Size: -1, Body: part}
	if size, err := strconv.ParseInt(r.URL.Query().Get("size"), 10, 64); err == nil {
		upload.Size = size
	}

	if err := sess.SelectAttachment(r.Context(), owner, reqID, upload); err != nil {
		s.writeWorkflowError(w, r, err)
		return
	}

	s.respond(w, r, sess, http.StatusOK)
}

func (s *Service) removeAttachment(w http.ResponseWriter, r *http.Request, owner workflow.Owner) {
	reqID, err := requirementID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid requirement id")
		return
	}

	s.mutate(w, r, func(wf *workflow.Workflow) error {
		if owner == workflow.OwnerPartnerDraft {
			draft, err := wf.Partners().DraftSlots()
			if err != nil {
				return err
			}
			return draft.Remove(reqID)
		}
		return wf.Attachments().Remove(reqID)
	})
}

func (s *Service) handlePostAttachment(w http.ResponseWriter, r *http.Request) {
	s.selectAttachment(w, r, workflow.OwnerRequest)
}

func (s *Service) handleDeleteAttachment(w http.ResponseWriter, r *http.Request) {
	s.removeAttachment(w, r, workflow.OwnerRequest)
}

func (s *Service) handlePostDraftAttachment(w http.ResponseWriter, r *http.Request) {
	s.selectAttachment(w, r, workflow.OwnerPartnerDraft)
}

func (s *Service) handleDeleteDraftAttachment(w http.ResponseWriter, r *http.Request) {
	s.removeAttachment(w, r, workflow.OwnerPartnerDraft)
}

func (s *Service) handleGetAttachmentPreview(w http.ResponseWriter, r *http.Request) {
	reqID, err := requirementID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid requirement id")
		return
	}

	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var preview *workflow.Preview
	err = sess.Do(r.Context(), func(wf *workflow.Workflow) error {
		var err error
		preview, err = wf.Attachments().Preview(reqID)
		return err
	})
	if err != nil {
		s.writeWorkflowError(w, r, err)
		return
	}

	if preview == nil {
		s.writeError(w, http.StatusNotFound, "no file selected")
		return
	}

	s.writeJSON(w, http.StatusOK, types.PreviewView{
		FileName:    preview.FileName,
		ContentType: preview.ContentType,
		DataURI:     preview.DataURI,
	})
}
