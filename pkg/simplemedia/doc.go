// Package simplemedia provides a reusable library for media type, field
// configuration and media item management with pluggable repository
// backends.
//
// It exposes the media policy logic of a content-management system as plain
// functions over explicit collaborators:
//
//   - a TypeRegistry resolving media types, each bound to exactly one Source
//   - a source-field access policy that forbids deleting the field a media
//     type's source populates
//   - a template suggestion resolver for media items and view modes
//   - the default formatter adjustment for preconfigured media reference fields
//
// The Service interface ties these together with a Repository. Repository
// implementations (memory, Postgres) live under repo/, configuration
// export/import under configsync/ and the HTTP surface under api/.
//
// Access Results
//
// Policies return Allowed, Forbidden or Neutral. Combine merges results with
// "explicit Forbidden wins, else first Allowed wins, else Forbidden", so a
// policy that only ever returns Forbidden or Neutral never grants access on
// its own.
package simplemedia
