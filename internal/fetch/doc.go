// Package fetch retrieves the two tracked command references: the Gemini
// CLI markdown file, used verbatim, and the GitHub Copilot CLI HTML page,
// normalized to markdown with htmlmd.
package fetch
