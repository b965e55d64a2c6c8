package translation

import "fmt"

const promptTemplate = "你是一位技術文件翻譯專家。請將以下 markdown 內容翻譯成繁體中文，並遵守以下規則：\n\n" +
	"1. 保留所有 markdown 格式（標題、表格、程式碼區塊、清單等）。\n" +
	"2. 指令名稱（如 `/command`、`@symbol`、`!bang`、`--flag`、`UPPER_CASE` 變數）**不翻譯**，原樣保留。\n" +
	"3. 形如 @@LIT0@@ 的佔位符號必須原樣保留，每個只出現一次，不可翻譯、刪除或重複。\n" +
	"4. 技術術語可保留英文，在首次出現時於括號內附上繁體中文說明。\n" +
	"5. 翻譯後的說明文字使用自然流暢的繁體中文。\n" +
	"6. 只輸出翻譯後的 markdown，不要加上任何前言或說明。\n\n" +
	"來源：%s\n\n" +
	"---\n\n" +
	"%s\n"

// BuildPrompt fills the translation prompt with the source title and the
// (already masked) markdown.
func BuildPrompt(title, markdown string) string {
	return fmt.Sprintf(promptTemplate, title, markdown)
}
