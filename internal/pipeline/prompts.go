package pipeline

import "strings"

// Prompt templates. Placeholders match §6 exactly: generation uses
// {WEBSITE}; update uses {LLMS_TXT, WEBSITE}; retry-generation adds
// {LLMS_TXT (response), ERROR}; retry-update adds
// {OLD_LLMS_TXT, NEW_LLMS_TXT, ERROR}.

const generateTemplate = `You are generating an llms.txt file for a website. An llms.txt file is a
markdown document that helps large language models understand a website's
purpose and navigate its most important content. It follows this structure:
an H1 title naming the site, a block-quote summary describing it, optional
detail paragraphs, and zero or more H2-headed sections each followed by a
markdown list of links.

Website HTML:
{WEBSITE}

Output only valid markdown for the llms.txt file. Do not include any
commentary before or after the document.`

const updateTemplate = `You are updating an existing llms.txt file to reflect changes in a
website's HTML content.

Existing llms.txt:
{LLMS_TXT}

Updated website HTML:
{WEBSITE}

Output only the updated llms.txt as valid markdown, preserving unaffected
sections and structure. Do not include any commentary before or after the
document.`

const retryGenerateTemplate = `Your previous response did not produce a valid llms.txt file.

Website HTML:
{WEBSITE}

Your previous response:
{LLMS_TXT}

Validation error:
{ERROR}

Produce a corrected llms.txt as valid markdown, following the required
structure. Output only the document.`

const retryUpdateTemplate = `Your previous attempt to update the llms.txt file did not produce a valid
document.

Original llms.txt:
{OLD_LLMS_TXT}

Your previous (invalid) output:
{NEW_LLMS_TXT}

Validation error:
{ERROR}

Produce a corrected, updated llms.txt as valid markdown. Output only the
document.`

func promptGenerate(website string) string {
	return strings.ReplaceAll(generateTemplate, "{WEBSITE}", website)
}

func promptUpdate(llmsTxt, website string) string {
	r := strings.NewReplacer("{LLMS_TXT}", llmsTxt, "{WEBSITE}", website)
	return r.Replace(updateTemplate)
}

func promptRetryGenerate(website, response, errMsg string) string {
	r := strings.NewReplacer("{WEBSITE}", website, "{LLMS_TXT}", response, "{ERROR}", errMsg)
	return r.Replace(retryGenerateTemplate)
}

func promptRetryUpdate(oldLlmsTxt, newLlmsTxt, errMsg string) string {
	r := strings.NewReplacer("{OLD_LLMS_TXT}", oldLlmsTxt, "{NEW_LLMS_TXT}", newLlmsTxt, "{ERROR}", errMsg)
	return r.Replace(retryUpdateTemplate)
}
