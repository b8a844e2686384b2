// Package marl is the Composition Root for the Marl model layer.
//
// It connects the core record semantics (Domain Layer) with the storage
// adapters (Persistence Layer) using the Hexagonal Architecture pattern.
//
// Philosophy:
//
// Marl is the model layer of a headless content toolkit. A model is a bag of
// attributes with identity, an allow-list, optional timestamps and a
// validation pipeline; where those attributes live is an adapter detail.
// The default adapter keeps every record as a human-editable document on the
// filesystem, with an embedded SQLite adapter as the transactional
// alternative.
//
// Features:
//
//   - **Hexagonal Architecture**: Core domain is isolated from persistence details.
//   - **Validation Pipeline**: Declarative rules plus custom hooks veto a save before storage is touched.
//   - **Attribute Allow-List**: Unknown keys are silently dropped, so mass assignment stays safe.
//   - **Typed Access**: Generic wrapper (`NewTyped[T]`) for struct-backed records.
//   - **Default Adapter (FS)**: Markdown/YAML/JSON documents with frontmatter and an index cache.
//   - **Extensible**: Other backends plug in via `core.Store`.
//
// Usage:
//
//	// Initialize the service with functional options
//	svc, err := marl.New("./content",
//		marl.WithGenerateIDs(true),
//		marl.WithLogger(logger),
//	)
//
//	// Save a record
//	m := svc.NewModel("page", marl.Attributes{"title": "Home"})
//	err = svc.SaveModel(ctx, m)
package marl
