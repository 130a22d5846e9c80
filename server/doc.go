// Package server exposes the drug safety tools over JSON HTTP.
//
// Three tool endpoints accept POST bodies and answer with either a
// complete JSON result or a structured error body {error, kind, drugs}:
//
//	POST /v1/tools/drug_safety_profile  {"drug_name": "advil"}
//	POST /v1/tools/drug_recalls         {"drug_name": "lipitor"}
//	POST /v1/tools/compare_drug_safety  {"drugs": ["advil", "tylenol"]}
//
// Probe endpoints are registered alongside the tools and never require
// authentication:
//
//	GET /healthz   liveness
//	GET /readyz    readiness summary
//	GET /health    per-component detail
//
// Construction follows the usual config pattern:
//
//	srv, err := server.New(server.Config{
//		Resolver:   resolver,
//		Comparator: comparator,
//		Health:     agg,
//		Observer:   obs,
//		APIKey:     os.Getenv("DRUGSAFETY_API_KEY"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	http.ListenAndServe(":8080", srv.Handler())
//
// Tool failures map onto HTTP status codes: rate limiting answers 429
// with a Retry-After header, provider timeouts 504, provider outages
// 502, unknown drugs 404, invalid input 400, and comparisons that lost
// too many drugs 422 naming the drugs that failed.
package server
