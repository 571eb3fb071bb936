package service

import "math/rand"

// trainingTips is the fixed catalog of handbook one-liners. The selection
// is uniform over the list as written, so the repeated entries are more
// likely to come up; that weighting is intentional, not a copy-paste
// accident. Don't dedupe.
var trainingTips = []string{
	"Don't die!",
	"When in doubt, stop thinking — shout \"FOR DEMOCRACY!\" and charge.",
	"FOR! SUPER! EARTH!",
	"Say hello to DEMOCRACY!",
	"Don't drink and pilot.",
	"Praise your squadmates' fine work. We all march the grand road of history together!",
	"Drop pods have basic steering. Aim for the enemy!",
	"Automatons run an overreaction protocol — suppressive fire works wonders on them.",
	"Managed democracy is the pillar of advanced civilisation.",
	"Before engaging in any child-producing activity, remember to file form C-01.",
	"Don't worry: failing your objective will NOT get you sent to a freedom camp. That's dissident propaganda.",
	"If an enemy tries to talk, shoot first. Never be swayed by honeyed words.",
	"Report squadmates who sympathise with the enemy to your democracy officer. Thoughtcrime costs lives!",
	"Remember freedom!",
	"Down, up, left, down, up, right, down, up: Hellfire inbound.",
	"Down, right, up, up, up: Hellfire inbound.",
	"Whoever draws this tip posts a leg pic.",
	"Whoever draws this tip posts a leg pic.",
	"Whoever draws this tip posts a leg pic.",
	"Whoever draws this tip posts a leg pic.",
	"Whoever draws this tip posts a leg pic.",
	"Whoever draws this tip draws this tip.",
	"Click to enter text.",
	"What's for dinner?",
	"I just rebooted.",
	"Remember to rest! ...if you want to be taken for a coward, that is.",
	"Got democracy?",
	"Whoever draws this tip reports for duty today.",
	"Dragon fist: SHATTERING BLOW!",
	"MUSCLE!",
	"Daily desensitisation training keeps you calm in the face of enemy atrocities.",
}

// PickMessage returns one handbook tip chosen uniformly at random from the
// catalog. Stateless, never fails.
func PickMessage() string {
	return trainingTips[rand.Intn(len(trainingTips))]
}
