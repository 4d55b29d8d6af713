// CineFeel - Movie Catalog Ingestion and Content Similarity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinefeel

/*
Package supervisor runs CineFeel's long-lived services under a suture v4
supervisor tree.

	Root ("cinefeel")
	├── Ingest ("ingest-layer")
	│   ├── SyncService    (if SYNC_ENABLED)
	│   └── ImportService  (if IMPORT_ENABLED)
	└── API ("api-layer")
	    └── HTTPServerService

A service that returns an error is restarted with backoff; once the failure
threshold is exceeded the layer backs off for FailureBackoff. A failing
ingest service never takes the HTTP server down with it.

Supervisor events are logged through sutureslog, which writes to the
zerolog stream via logging.NewSlogLogger.

The service wrappers live in the services subpackage.
*/
package supervisor
