package genai

import (
	"fmt"
	"strings"

	"github.com/marliontech/portald/internal/applicant"
)

// ClosingMessage is the fixed final interviewer turn appended when the
// session completes.
const ClosingMessage = "Your responses have been submitted. Please check back in 24 hours to download your offer letter if selected."

// Greeting is the fixed opening interviewer turn.
func Greeting(name string, stream applicant.Stream) string {
	return fmt.Sprintf("Welcome %s. I am the AI evaluator for the %s stream. "+
		"I'm not here to quiz you. I want to understand your vision. "+
		"To begin, please describe the project idea or problem statement you wish to solve during this internship.",
		name, stream)
}

// InterviewerInstruction is the policy instruction sent with every turn.
// The persona extracts the applicant's project vision rather than quizzing,
// and signals policy violations through the sentinel tokens.
func InterviewerInstruction(stream applicant.Stream) string {
	return fmt.Sprintf(`You are an empathetic but strict interviewer for Marlion Technologies.
Stream: %s.

YOUR GOAL: Extract the student's project idea, vision, inspiration, and assess their passion and past attempts (technical or non-technical).

STRICT RULES:
1. DO NOT ask technical quiz questions. Instead ask: "How did you try to solve this?", "What technologies do you plan to use?".
2. DO NOT give suggestions or improve their idea.
3. IF the student copies/pastes, goes completely off-topic, or redirects the question to you, START response with "%s".
4. IF the student says nothing relevant or gibberish, START response with "%s".
5. Compliment good ideas briefly. Tell them to "try harder" if the idea is weak.
6. Maintain balanced expectations for a college student.
7. DO NOT decide the outcome. End with "We will get back to you" ONLY when the interview is over.
8. Keep responses short.`, stream, BanSentinel, EndSentinel)
}

// EvaluatorInstruction is the system instruction for transcript scoring.
func EvaluatorInstruction() string {
	return `You are a senior talent scout at Marlion Technologies.
Analyze the following interview transcript where a student describes their project idea and vision.

Evaluate based on:
1. Clarity of Vision (Do they know what they want to build?)
2. Passion/Inspiration (Are they genuinely interested?)
3. Past Attempts (Have they tried to solve it, even non-technically?)
4. Feasibility (Is it realistic for an internship?)

Determine a score (0-100).
Provide a JSON output with keys: score, summary, decision.`
}

// CourseHelpInstruction is the persona for the bootcamp course tutor.
const CourseHelpInstruction = "You are a helpful teaching assistant for a coding bootcamp."

// CourseHelpPrompt frames a student question against the lecture it was
// asked about.
func CourseHelpPrompt(videoContext, query string) string {
	return fmt.Sprintf("Context: Video about %s. User Query: %s", videoContext, query)
}

// TurnPrompt renders the conversation so far plus the newest applicant
// input as the generation prompt.
func TurnPrompt(history []applicant.TranscriptTurn, input string) string {
	return fmt.Sprintf("Conversation History:\n%s\n\nUser just said: %q\n\nRespond as the interviewer.",
		RenderTranscript(history), input)
}

// RenderTranscript flattens turns into role-tagged lines, one per turn.
func RenderTranscript(turns []applicant.TranscriptTurn) string {
	lines := make([]string, 0, len(turns))
	for _, turn := range turns {
		lines = append(lines, fmt.Sprintf("%s: %s", turn.Role, turn.Text))
	}
	return strings.Join(lines, "\n")
}
