package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/satriahrh/mockview/domain/entities"
)

const feedbackPromptEnglish = `You are an expert interview coach. Evaluate the following interview answer.

Question: "%s"
Expected Answer: "%s"
User's Answer: "%s"

Scoring rubric (use the FULL 1-5 scale, do not default to high scores):
- 5: Excellent. Covers all key points with depth, clear reasoning, and strong examples.
- 4: Good. Covers most key points but missing some detail or depth.
- 3: Adequate. Demonstrates partial understanding; covers some key points but misses important ones.
- 2: Weak. Shows minimal understanding; mostly vague, incomplete, or only tangentially related.
- 1: Poor. Fundamentally wrong, completely off-topic, or essentially empty.

Additional notes:
- Answers are captured via speech recognition, so ignore grammar mistakes, filler words, and transcription artifacts.
- Compare the substance of the answer against the expected answer's key points. A score of 3 means roughly half the key points are addressed.
- "communicationClarity" measures how well the candidate structures and conveys ideas, not grammar.
- "relevance" measures whether the answer addresses the question's core topic.

Respond with ONLY a JSON object (no markdown, no extra text) in this exact format:
{
  "rating": <overall score 1-5>,
  "competencies": {
    "technicalKnowledge": <score 1-5>,
    "communicationClarity": <score 1-5>,
    "problemSolving": <score 1-5>,
    "relevance": <score 1-5>
  },
  "strengths": "<what the candidate did well, 1-2 sentences>",
  "improvements": "<specific areas to improve, 1-2 sentences>",
  "suggestedAnswer": "<a stronger version of the answer, 2-3 sentences>"
}`

const feedbackPromptKorean = `당신은 전문 면접 코치입니다. 다음 면접 답변을 평가하세요.

질문: "%s"
예상 답변: "%s"
지원자의 답변: "%s"

채점 기준 (1-5점 전체 범위를 사용하세요. 높은 점수를 기본값으로 하지 마세요):
- 5점: 우수. 모든 핵심 요점을 깊이 있게 다루고, 명확한 논리와 좋은 예시를 제시함.
- 4점: 양호. 대부분의 핵심 요점을 다루지만, 일부 세부 사항이나 깊이가 부족함.
- 3점: 보통. 부분적 이해를 보여줌; 일부 핵심 요점은 다루지만 중요한 부분을 놓침.
- 2점: 미흡. 이해도가 낮음; 대부분 모호하거나, 불완전하거나, 간접적으로만 관련됨.
- 1점: 부족. 근본적으로 틀리거나, 완전히 주제에서 벗어나거나, 사실상 답변이 없음.

추가 사항:
- 답변은 음성 인식으로 수집되므로 문법 오류, 불필요한 단어, 전사 오류는 무시하세요.
- 예상 답변의 핵심 요점과 답변의 실질적 내용을 비교하세요. 3점은 핵심 요점의 약 절반을 다룬 수준입니다.
- "communicationClarity"는 아이디어 구성과 전달력을 측정합니다. 문법이 아닙니다.
- "relevance"는 답변이 질문의 핵심 주제를 다루는지를 측정합니다.

다음 JSON 형식으로만 응답하세요 (마크다운이나 추가 텍스트 없이):
{
  "rating": <1-5점 전체 점수>,
  "competencies": {
    "technicalKnowledge": <1-5점>,
    "communicationClarity": <1-5점>,
    "problemSolving": <1-5점>,
    "relevance": <1-5점>
  },
  "strengths": "<잘한 점, 1-2문장, 한국어로>",
  "improvements": "<개선할 부분, 1-2문장, 한국어로>",
  "suggestedAnswer": "<더 나은 답변 예시, 2-3문장, 한국어로>"
}`

func feedbackPrompt(language, question, correctAns, userAns string) string {
	template := feedbackPromptEnglish
	if entities.NormalizeLanguage(language) == entities.LanguageKorean {
		template = feedbackPromptKorean
	}
	return fmt.Sprintf(template, question, correctAns, userAns)
}

var typeFocus = map[entities.InterviewType]string{
	entities.InterviewTypeGeneral:      "a balanced mix of motivation, experience and role-specific questions",
	entities.InterviewTypeBehavioral:   "behavioral questions answerable with the STAR method (situation, task, action, result)",
	entities.InterviewTypeTechnical:    "technical questions probing concepts, tools and trade-offs used in the role",
	entities.InterviewTypeSystemDesign: "system design questions about architecture, scalability and reliability",
}

var difficultyLevel = map[entities.Difficulty]string{
	entities.DifficultyJunior: "a junior candidate (0-2 years of experience)",
	entities.DifficultyMid:    "a mid-level candidate (3-5 years of experience)",
	entities.DifficultySenior: "a senior candidate (6+ years of experience)",
}

// questionContext renders the job or reference material the questions are based on
func questionContext(req QuestionRequest) string {
	var b strings.Builder
	if req.ReferenceContent != "" {
		fmt.Fprintf(&b, "Base the questions on the following reference material:\n\"\"\"\n%s\n\"\"\"\n", req.ReferenceContent)
		if req.JobPosition != "" {
			fmt.Fprintf(&b, "Topic: %s\n", req.JobPosition)
		}
	} else {
		fmt.Fprintf(&b, "Job position: %s\n", req.JobPosition)
		if req.JobDesc != "" {
			fmt.Fprintf(&b, "Job description / tech stack: %s\n", req.JobDesc)
		}
		if req.JobExperience != "" {
			fmt.Fprintf(&b, "Years of experience: %s\n", req.JobExperience)
		}
	}
	if req.ResumeText != "" {
		fmt.Fprintf(&b, "Candidate resume:\n\"\"\"\n%s\n\"\"\"\nTailor some questions to the resume.\n", req.ResumeText)
	}
	fmt.Fprintf(&b, "Focus on %s.\n", typeFocus[req.InterviewType])
	fmt.Fprintf(&b, "Pitch the questions at %s.\n", difficultyLevel[req.Difficulty])
	if entities.NormalizeLanguage(req.Language) == entities.LanguageKorean {
		b.WriteString("Write everything in Korean.\n")
	}
	return b.String()
}

func generateQuestionsPrompt(req QuestionRequest) string {
	return fmt.Sprintf(`You are an experienced interviewer preparing a mock interview.
%s
Generate exactly %d interview questions with a model answer for each.
Respond with ONLY a JSON array (no markdown, no extra text) in this exact format:
[{"question": "<question>", "answer": "<model answer, 2-4 sentences>"}]`, questionContext(req), req.QuestionCount)
}

func answerCustomQuestionsPrompt(req QuestionRequest, questions []string) string {
	var list strings.Builder
	for i, q := range questions {
		fmt.Fprintf(&list, "%d. %s\n", i+1, q)
	}
	return fmt.Sprintf(`You are an experienced interviewer preparing a mock interview.
%s
Write a model answer for each of these questions, keeping their order:
%s
Respond with ONLY a JSON array (no markdown, no extra text) in this exact format:
[{"question": "<question>", "answer": "<model answer, 2-4 sentences>"}]`, questionContext(req), list.String())
}

func suggestQuestionsPrompt(req QuestionRequest) string {
	return fmt.Sprintf(`You are an experienced interviewer preparing a mock interview.
%s
Suggest exactly %d interview questions.
Respond with ONLY a JSON array of strings (no markdown, no extra text).`, questionContext(req), req.QuestionCount)
}

var codeFence = regexp.MustCompile("```(?:json)?\n?")

// cleanJSON strips markdown code fences models like to wrap JSON in
func cleanJSON(text string) string {
	return strings.TrimSpace(codeFence.ReplaceAllString(text, ""))
}
