package eventboard

import "context"

// Image is a decoded flyer re-encoded for the model.
type Image struct {
	// Data holds the opaque, 3-channel JPEG encoding of the image.
	Data     []byte
	MIMEType string

	Width  int
	Height int

	// Format is the format the file was decoded from (e.g., "png").
	Format string
}

// Request is the prompt-ready content of one source.
// Page sources carry Text, image sources carry Image.
type Request struct {
	Source Source
	Text   string
	Image  *Image
}

// Validate returns an error if the request does not match its source type.
func (r *Request) Validate() error {
	switch r.Source.Type {
	case SourceImage:
		if r.Image == nil || len(r.Image.Data) == 0 {
			return Errorf(EINVALID, "image request requires image data")
		}
	case SourceURL:
		if r.Image != nil {
			return Errorf(EINVALID, "page request must not carry an image")
		}
	default:
		return Errorf(EINVALID, "invalid source type %q", r.Source.Type)
	}
	if r.Source.Data == "" {
		return Errorf(EINVALID, "request source data required")
	}
	return nil
}

// Loader turns a source location into a prompt-ready request.
// Load errors are fatal for a run.
type Loader interface {
	// Load reads the source at location.
	// Returns ENOTFOUND if a file does not exist and EFETCH if a page
	// cannot be retrieved.
	Load(ctx context.Context, location string) (*Request, error)
}
