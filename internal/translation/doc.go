// Package translation turns English markdown into Traditional Chinese using
// a hosted language model (Gemini or OpenAI). Inline code spans and code
// blocks are masked before the request and restored afterwards, so command
// names such as `/help` or `--model` always come back unchanged.
package translation
