package recommend

// Keys of the stress entries. Emotion keys match the emotion label set.
const (
	KeyLow     = "low"
	KeyMedium  = "medium"
	KeyHigh    = "high"
	KeyNeutral = "neutral"
)

var table = map[string]Recommendation{
	"happy": {
		StudyTips: []string{
			"Tackle the hardest topic on your list while your mood is high",
			"Try teaching a concept out loud to lock it in",
			"Set a stretch goal for this session",
		},
		MotivationalQuote: "Success is the sum of small efforts, repeated day in and day out.",
		RecommendedActivities: []string{
			"Practice problems on a new chapter",
			"Group study or peer explanation",
			"Create a mind map of the topic",
		},
	},
	"sad": {
		StudyTips: []string{
			"Start with a short, easy task to build momentum",
			"Review material you already know well",
			"Break work into 15 minute blocks",
		},
		MotivationalQuote: "Every expert was once a beginner. Be gentle with yourself today.",
		RecommendedActivities: []string{
			"Light review with flashcards",
			"Listen to calm instrumental music while reading",
			"Take a short walk before the next block",
		},
	},
	"angry": {
		StudyTips: []string{
			"Step away for five minutes before continuing",
			"Switch to a different subject for a while",
			"Write down what is frustrating you, then set it aside",
		},
		MotivationalQuote: "Calm seas never made a skilled sailor.",
		RecommendedActivities: []string{
			"Breathing exercise: four seconds in, four seconds out",
			"Physical movement or stretching",
			"Low-stakes review such as re-reading notes",
		},
	},
	"fear": {
		StudyTips: []string{
			"List exactly what you need to cover so it feels finite",
			"Do one practice question under no time pressure",
			"Focus on progress, not perfection",
		},
		MotivationalQuote: "Courage is not the absence of fear, but the decision that something else is more important.",
		RecommendedActivities: []string{
			"Write a study plan for the next three days",
			"Review worked examples step by step",
			"Short guided relaxation",
		},
	},
	"surprise": {
		StudyTips: []string{
			"Channel the curiosity: dig into whatever caught your attention",
			"Note down new questions as they come up",
			"Connect the new idea to something you already know",
		},
		MotivationalQuote: "The important thing is not to stop questioning.",
		RecommendedActivities: []string{
			"Explore a related video or article",
			"Summarize the new idea in three sentences",
			"Quiz yourself on the surprising part",
		},
	},
	"disgust": {
		StudyTips: []string{
			"Change your environment or study spot",
			"Find a real-world application of the topic",
			"Alternate the topic with one you enjoy",
		},
		MotivationalQuote: "Discipline is choosing between what you want now and what you want most.",
		RecommendedActivities: []string{
			"Switch study format, for example from reading to practice",
			"Short break with a snack or water",
			"Pair up with a study partner",
		},
	},
	KeyNeutral: {
		StudyTips: []string{
			"Use the Pomodoro technique: 25 minutes on, 5 minutes off",
			"Set one clear goal for this session",
			"Keep your phone out of reach",
		},
		MotivationalQuote: "The secret of getting ahead is getting started.",
		RecommendedActivities: []string{
			"Active recall on today's material",
			"Summarize your notes",
			"Practice questions",
		},
	},
	KeyLow: {
		StudyTips: []string{
			"You sound relaxed: a good time for deep focus work",
			"Work through longer problem sets",
			"Plan ahead for upcoming deadlines",
		},
		MotivationalQuote: "Focus on being productive instead of busy.",
		RecommendedActivities: []string{
			"Deep work block of 45 minutes",
			"Read a full chapter",
			"Write practice essays",
		},
	},
	KeyMedium: {
		StudyTips: []string{
			"Keep sessions short and take regular breaks",
			"Prioritize the most important topic first",
			"Drink some water and check your posture",
		},
		MotivationalQuote: "You don't have to see the whole staircase, just take the first step.",
		RecommendedActivities: []string{
			"Pomodoro sessions with five minute breaks",
			"Flashcard review",
			"Quick stretch between topics",
		},
	},
	KeyHigh: {
		StudyTips: []string{
			"Pause and take a few slow breaths before continuing",
			"Reduce today's goal to one manageable task",
			"Talk to someone if the pressure keeps building",
		},
		MotivationalQuote: "Almost everything will work again if you unplug it for a few minutes, including you.",
		RecommendedActivities: []string{
			"Box breathing for two minutes",
			"Go for a short walk outside",
			"Light review only, no new material",
		},
	},
}
