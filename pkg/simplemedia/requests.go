package simplemedia

// CreateMediaTypeRequest contains parameters for creating a media type
type CreateMediaTypeRequest struct {
	ID           string
	Label        string
	Description  string
	SourcePlugin string
	// SourceField overrides the source plugin's default field name
	SourceField string
}

// CreateFieldConfigRequest contains parameters for adding a field to a bundle
type CreateFieldConfigRequest struct {
	EntityType string
	Bundle     string
	FieldName  string
	FieldType  string
	Label      string
	Settings   FieldSettings
}

// CreateMediaItemRequest contains parameters for creating a media item
type CreateMediaItemRequest struct {
	Bundle    string
	Label     string
	Published bool
}

// DefaultMediaTypes returns the media types of a standard installation.
func DefaultMediaTypes() []CreateMediaTypeRequest {
	return []CreateMediaTypeRequest{
		{ID: "audio", Label: "Audio", Description: "A locally hosted audio file.", SourcePlugin: SourceAudioFile},
		{ID: "document", Label: "Document", Description: "An uploaded file or document, such as a PDF.", SourcePlugin: SourceDocument},
		{ID: "image", Label: "Image", Description: "Use local images for reusable media.", SourcePlugin: SourceImage},
		{ID: "remote_video", Label: "Remote video", Description: "A remotely hosted video from YouTube or Vimeo.", SourcePlugin: SourceRemoteVideo},
		{ID: "video", Label: "Video", Description: "A locally hosted video file.", SourcePlugin: SourceVideoFile},
	}
}
