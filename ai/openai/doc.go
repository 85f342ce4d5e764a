// Package openai provides an ai.Embedder backed by OpenAI-compatible
// embedding APIs, including local servers exposing the same protocol.
package openai
