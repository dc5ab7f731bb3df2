package schedule

// Static filler pool: the last-resort content source. Cheap, deterministic,
// and endless, so the queue can always be refilled without blocking.
var fillerPool = []poolEntry{
	{topic: "a minute of calming studio ambience", angle: "soothing narration"},
	{topic: "rapid-fire listener shout-outs", angle: "auctioneer speed"},
	{topic: "the hosts rank their favorite chairs", angle: "faux seriousness"},
	{topic: "an improvised jingle", angle: "musical"},
	{topic: "behind-the-scenes trivia", angle: "conspiratorial whisper"},
}

// nextFiller synthesizes a filler item, cycling the pool.
// Callers hold the service mutex.
func (s *Service) nextFiller() Item {
	e := fillerPool[s.fillerIdx%len(fillerPool)]
	s.fillerIdx++
	return Item{
		Kind:       KindFiller,
		Topic:      e.topic,
		Angle:      e.angle,
		Engagement: 35,
		Priority:   PriorityFiller,
		DayPart:    s.daypart,
	}
}
