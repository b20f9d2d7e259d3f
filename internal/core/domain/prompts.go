package domain

// DefaultAnswerPrompt grounds answers in retrieved context. The first %s is
// the concatenated context, the second the question.
const DefaultAnswerPrompt = `Answer the question as detailed as possible from the provided context, make sure to provide all the details, if the answer is not in provided context just say, "` + AnswerNotAvailable + `", don't provide the wrong answer

Context:
 %s?
Question: 
%s

Answer:`

// DefaultVideoSummaryPrompt asks for a narrative over sampled video frames.
const DefaultVideoSummaryPrompt = `These are sequential frames from a video. Please provide a detailed, cohesive summary of the event taking place. Describe the action as a continuous narrative. IMPORTANT: Do NOT mention specific frame numbers (e.g., 'Frame 1', 'In the first frame'). Just describe what happens in the video.`
