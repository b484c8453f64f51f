package descriptions

import "sort"

// Tool names exposed by the MCP server.
const (
	ToolProcessBatch = "sds_process_batch"
	ToolExtractFile  = "sds_extract_file"
	ToolListFiles    = "sds_list_files"
	ToolServerInfo   = "sds_server_info"
)

const (
	ProcessBatchDescription = `Extract safety data from a batch of SDS/MSDS PDFs and write one consolidated table.

**When to use:** You have one or more safety data sheets and need their key properties (CAS number, flash point, exposure limits, toxicity) side by side in a spreadsheet.

**What you get:** One row per document with 19 columns. Fields that cannot be found are written as "NDA" (no data available). The response reports how many files were processed, which were skipped and why, and the path of the written table.

**Examples:**
• Build a register: "Process every PDF in /safety/sheets into register.xlsx"
• Extend a register: "Add the new sheets in /incoming to register.xlsx, skipping CAS numbers already present"
• Clean up repeats: "Process /supplier-a and merge entries sharing a CAS number"

**Common workflows:**
1. New register: sds_list_files → sds_process_batch → open the output table
2. Incremental update: sds_process_batch with existing=register.xlsx and duplicate_check=cas
3. Investigation: sds_process_batch → a file shows NDA fields → sds_extract_file on that file

**Best practices:** Use duplicate_check when appending to an existing table. Scanned PDFs without a text layer are reported as skipped with "no text extracted".`

	ExtractFileDescription = `Extract the SDS fields from a single document without writing any table.

**When to use:** Checking what the extractor finds in one sheet, or debugging why a field came out as NDA.

**What you get:** Every column with its extracted value, plus the document text length. Accepts a PDF or a .txt file holding text already extracted from a PDF.

**Examples:**
• Spot check: "Show the fields found in acetone-sds.pdf"
• Debugging: "Why is the flash point missing for solvent-x.pdf?"

**Common workflows:**
1. Quality check: sds_extract_file → compare against the source document → adjust before a batch run

**Best practices:** Run on a representative sample from each supplier; layouts differ and some suppliers omit fields entirely.`

	ListFilesDescription = `List the PDF files a batch run would pick up.

**When to use:** Before sds_process_batch, to confirm which documents are in a directory (searched recursively).

**What you get:** Every PDF path in lexical order with its size. Uses the default directory if none is given.

**Examples:**
• Inventory: "Which safety data sheets are in /safety/sheets?"

**Best practices:** Pass the listed directory straight to sds_process_batch as its input.`

	ServerInfoDescription = `Get server information, the output schema, duplicate check policies and defaults.

**When to use:** Starting a session, or checking which columns and options the extractor supports.

**What you get:** Server version, default directory and output, maximum file size, the ordered column list, the duplicate check policies and the available tools.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	ToolProcessBatch: ProcessBatchDescription,
	ToolExtractFile:  ExtractFileDescription,
	ToolListFiles:    ListFilesDescription,
	ToolServerInfo:   ServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns all tool names in sorted order
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
