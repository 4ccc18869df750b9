// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentStore: document, image, and full-text index persistence
//   - TextGenerator: remote summarisation endpoint
//   - ConfigStore: application configuration
//
// # Collaborator Interfaces
//
// These describe external collaborators around the pipeline. They can be nil
// or stubbed - the text-side pipeline still functions:
//
//   - ImageStore: opaque storage for captured page images
//   - TextRecognizer: OCR, producing text from an image reference
//   - Exporter: plain-text or paginated export of a summarised document
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
