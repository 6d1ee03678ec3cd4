// Package server exposes the matching service over HTTP with gin.
//
// Routes:
//
//	POST /upload-resume       store a plain-text resume (multipart "file" or raw body)
//	POST /extract-fields      extract profile fields for new resumes
//	POST /extract-key-skills  extract key skills for new profiles
//	POST /build-index         rebuild the vector index
//	GET  /search              rank candidates: ?query=...&top_k=N
//	GET  /index               describe the installed index
//
// Every failure is answered with {"message": "..."}.
package server
