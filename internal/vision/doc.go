// Package vision talks to an OpenRouter-compatible chat completion API
// with image attachments. It powers model-based categorization, OCR,
// object description for video frames, and text translation.
package vision
