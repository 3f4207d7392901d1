// Package prompts holds the instruction contract for structured job-posting
// extraction.
package prompts

import (
	"fmt"

	"github.com/cloudwego/eino/schema"
)

// JobExtractionSystem is the fixed instruction contract for turning posting
// page text into structured JSON. The schema must stay in sync with
// extract.Extraction.
const JobExtractionSystem = `You are a job posting data extraction specialist. Your task is to extract structured information
from job posting page text and return it as valid JSON.

Extract the following fields (use null for any field you cannot find):
- title: Job title (string, or null)
- company: Company name (string, or null)
- location: Job location (string, or null)
- remote_type: One of: "remote", "hybrid", "onsite", or null if not specified
- salary: Salary range or compensation info (string, or null if not mentioned)
- description: Full job description/summary (string, or null)
- requirements: TECHNICAL qualifications and hard skills ONLY as a JSON array of strings.
  Focus on: programming languages, frameworks, tools, technologies, certifications, specific experience, education.
  INCLUDE: "Python", "React", "AWS", "Bachelor's in CS", "3+ years Java", "Kubernetes", "SQL", "Docker", "CI/CD"
  EXCLUDE: Soft skills like "leadership", "communication", "team player", "problem solving", "curiosity"
  Extract 5-15 specific technical requirements. If none found, use empty array []
- job_type: One of: "full-time", "part-time", "internship", "contract", "temporary", "other", or null
- posted_date: When the job was posted (string in ISO format if possible, or null)
- application_url: URL to apply (string, or null)

Return ONLY valid JSON in this exact format (no markdown, no explanation):
{
  "title": "Software Engineer",
  "company": "Acme Corp",
  "location": "San Francisco, CA",
  "remote_type": "hybrid",
  "salary": "$120k-$150k",
  "description": "We are seeking...",
  "requirements": ["Bachelor's in Computer Science", "5+ years Python/Django", "React.js", "PostgreSQL", "AWS (EC2, S3, Lambda)", "Docker & Kubernetes", "REST API design", "Git/GitHub", "CI/CD pipelines"],
  "job_type": "full-time",
  "posted_date": "2025-11-01",
  "application_url": "https://..."
}

Critical rules:
- ALWAYS return valid JSON even if most fields are null
- If a field is not found, use null (not empty string, not "N/A")
- For requirements: use empty array [] if none found, NOT null
- For requirements: ONLY include technical skills (languages, frameworks, tools, years of experience, degrees)
- For requirements: EXCLUDE all soft skills (communication, leadership, teamwork, problem-solving, etc.)
- For requirements: Be specific and concise, extract 5-15 technical items
- Do not include ANY text outside the JSON object
- Ensure all JSON is properly escaped`

// JobExtractionMessages builds the message pair for one extraction call. The
// messages are assembled directly because the instruction contract contains
// literal braces that the f-string template engine would mangle.
func JobExtractionMessages(sourceURL, pageText string) []*schema.Message {
	user := fmt.Sprintf("Extract job posting information from the following job posting page.\nSource URL: %s\n\nContent:\n%s",
		sourceURL, pageText)
	return []*schema.Message{
		schema.SystemMessage(JobExtractionSystem),
		schema.UserMessage(user),
	}
}
