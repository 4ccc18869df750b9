package driven

import "context"

// TextRecognizer extracts text from a stored image. Best effort: it may
// return an empty string, and makes no language or confidence guarantees.
//
// OCR is an external collaborator; scandoc consumes its output and never
// looks inside it.
type TextRecognizer interface {
	RecognizeText(ctx context.Context, imageRef string) (string, error)
}
