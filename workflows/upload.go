package workflows

import (
	"context"
	"fmt"

	"wardrobeapi/models"
)

type UploadState int

const (
	StateIdle UploadState = iota
	StateImageSelected
	StateAnalyzing
	StateAnalyzed
	StateEditing
)

func (s UploadState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateImageSelected:
		return "image-selected"
	case StateAnalyzing:
		return "analyzing"
	case StateAnalyzed:
		return "analyzed"
	case StateEditing:
		return "editing"
	}
	return fmt.Sprintf("UploadState(%d)", int(s))
}

// Upload walks one image from the media library through analysis to a saved item.
type Upload struct {
	backend  UploadBackend
	picker   MediaPicker
	notifier Notifier

	image           string
	details         *models.ClothingDetails
	editing         bool
	editDescription *string
	analyzing       bool
	saving          bool
}

func NewUpload(backend UploadBackend, picker MediaPicker, notifier Notifier) *Upload {
	return &Upload{backend: backend, picker: picker, notifier: notifier}
}

func (u *Upload) State() UploadState {
	switch {
	case u.analyzing:
		return StateAnalyzing
	case u.details != nil && u.editing:
		return StateEditing
	case u.details != nil:
		return StateAnalyzed
	case u.image != "":
		return StateImageSelected
	}
	return StateIdle
}

func (u *Upload) Image() string {
	return u.image
}

// Details returns a copy of the current analysis, or nil before analysis.
func (u *Upload) Details() *models.ClothingDetails {
	if u.details == nil {
		return nil
	}
	details := *u.details
	details.Tags = append([]string{}, u.details.Tags...)
	return &details
}

func (u *Upload) Saving() bool {
	return u.saving
}

// Pick asks for media-library permission and lets the user choose an image.
// A cancelled pick leaves the state as it was.
func (u *Upload) Pick(ctx context.Context) error {
	if u.analyzing {
		return ErrBusy
	}
	granted, err := u.picker.RequestPermission(ctx)
	if err != nil {
		u.notifier.Error("Error", "Failed to request media library permission")
		return err
	}
	if !granted {
		u.notifier.Error("Permission Required", "Please grant media library permissions to upload images.")
		return ErrPermissionDenied
	}

	ref, ok, err := u.picker.Pick(ctx)
	if err != nil {
		u.notifier.Error("Error", "Failed to pick image")
		return err
	}
	if !ok {
		return nil
	}
	u.image = ref
	u.details = nil
	u.editing = false
	u.editDescription = nil
	return nil
}

// Analyze sends the selected image to the backend. Failure keeps the image
// so the caller may retry.
func (u *Upload) Analyze(ctx context.Context) error {
	if u.analyzing {
		return ErrBusy
	}
	if u.image == "" {
		u.notifier.Error("Error", "Please select an image first.")
		return ErrNoImage
	}
	u.analyzing = true
	defer func() { u.analyzing = false }()

	file, err := u.picker.Open(u.image)
	if err != nil {
		u.notifier.Error("Upload Failed", "Failed to read the selected image")
		return err
	}
	defer file.Close()

	details, err := u.backend.AnalyzeImage(ctx, file)
	if err != nil {
		u.notifier.Error("Upload Failed", userMessage(err, "Failed to analyze image. Please try again."))
		return err
	}
	u.details = details
	description := details.Description
	u.editDescription = &description
	return nil
}

// ToggleEdit switches between analyzed and editing. Leaving edit mode commits
// the edit buffer into the details.
func (u *Upload) ToggleEdit() error {
	if u.details == nil {
		return ErrNotAnalyzed
	}
	if u.editing && u.editDescription != nil {
		u.details.Description = *u.editDescription
	}
	u.editing = !u.editing
	return nil
}

func (u *Upload) SetEditDescription(description string) {
	u.editDescription = &description
}

func (u *Upload) EditDescription() string {
	if u.editDescription == nil {
		return ""
	}
	return *u.editDescription
}

// Save persists the analyzed item and resets the workflow to idle. The image
// reference sent is the stored copy when the backend kept one.
func (u *Upload) Save(ctx context.Context) (string, error) {
	if u.image == "" || u.details == nil {
		u.notifier.Error("Error", "Please upload and analyze an image first.")
		return "", ErrNotAnalyzed
	}
	if u.saving || u.analyzing {
		return "", ErrBusy
	}
	u.saving = true
	defer func() { u.saving = false }()

	imageURI := u.image
	if u.details.StoredImageURI != "" {
		imageURI = u.details.StoredImageURI
	}
	out, err := u.backend.SaveItem(ctx, models.SaveItemIn{
		ImageURI:    imageURI,
		Description: u.details.Description,
		Tags:        u.details.Tags,
	})
	if err != nil {
		u.notifier.Error("Error", userMessage(err, "Failed to save item to database"))
		return "", err
	}

	u.notifier.Info("Success", "Item saved successfully!")
	u.image = ""
	u.details = nil
	u.editing = false
	u.editDescription = nil
	return out.ID, nil
}
