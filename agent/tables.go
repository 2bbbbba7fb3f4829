package agent

import "spirepilot/spire"

// Selection prompts that keep or duplicate the picked cards versus the
// ones that discard, exhaust or bury them. The driver offers its best
// cards to the first group and its worst to the second.
var (
	defaultGoodCardActions = []string{
		"PutOnDeckAction",
		"ArmamentsAction",
		"DualWieldAction",
		"NightmareAction",
		"RetainCardsAction",
		"SetupAction",
	}
	defaultBadCardActions = []string{
		"DiscardAction",
		"ExhaustAction",
		"PutOnBottomOfDeckAction",
		"RecycleAction",
		"ForethoughtAction",
		"GamblingChipAction",
	}
)

// defaultMapRewards weighs map symbols per act: rest sites dominate,
// elites are worth fighting only while their relics pay off, monsters
// are filler. The planner seeds unreached nodes at twenty times the
// worst weight, so the floor of every table stays at zero.
func defaultMapRewards() map[int]map[string]int {
	return map[int]map[string]int{
		1: {"R": 1000, "E": 10, "$": 100, "?": 100, "M": 1, "T": 0},
		2: {"R": 1000, "E": 100, "$": 50, "?": 100, "M": 1, "T": 0},
		3: {"R": 1000, "E": 1, "$": 50, "?": 10, "M": 1, "T": 0},
	}
}

func ironcladTables() Tables {
	return Tables{
		CardRanks: []string{
			"Offering",
			"Demon Form",
			"Feed",
			"Immolate",
			"Impervious",
			"Limit Break",
			"Fiend Fire",
			"Reaper",
			"Shockwave",
			"Disarm",
			"Whirlwind",
			"Battle Trance",
			"Inflame",
			"Shrug It Off",
			"Pommel Strike",
			"Uppercut",
			"Carnage",
			"Cleave",
			"Thunderclap",
			"Metallicize",
			"Iron Wave",
			"Twin Strike",
			"Flex",
			"Anger",
			skipSentinel,
			"Bash",
			"Strike",
			"Defend",
			"Clash",
			"Wild Strike",
		},
		PlayRanks: []string{
			"Limit Break",
			"Offering",
			"Demon Form",
			"Inflame",
			"Battle Trance",
			"Flex",
			"Disarm",
			"Shockwave",
			"Immolate",
			"Fiend Fire",
			"Reaper",
			"Whirlwind",
			"Carnage",
			"Uppercut",
			"Pommel Strike",
			"Cleave",
			"Thunderclap",
			"Twin Strike",
			"Iron Wave",
			"Anger",
			"Bash",
			"Strike",
			"Shrug It Off",
			"Impervious",
			"Flame Barrier",
			"Metallicize",
			"Defend",
		},
		MaxCopies: map[string]int{
			"Anger":         1,
			"Armaments":     1,
			"Battle Trance": 1,
			"Carnage":       1,
			"Cleave":        1,
			"Demon Form":    1,
			"Disarm":        2,
			"Feed":          1,
			"Fiend Fire":    1,
			"Flame Barrier": 1,
			"Flex":          1,
			"Immolate":      1,
			"Impervious":    2,
			"Inflame":       1,
			"Iron Wave":     1,
			"Limit Break":   1,
			"Metallicize":   1,
			"Offering":      1,
			"Pommel Strike": 2,
			"Reaper":        1,
			"Shockwave":     1,
			"Shrug It Off":  2,
			"Thunderclap":   1,
			"Twin Strike":   1,
			"Uppercut":      1,
			"Whirlwind":     1,
		},
		AOE: []string{
			"Cleave",
			"Whirlwind",
			"Immolate",
			"Shockwave",
			"Thunderclap",
			"Reaper",
		},
		Defensive: []string{
			"Defend_R",
			"Shrug It Off",
			"Impervious",
			"Flame Barrier",
			"Ghostly Armor",
			"Metallicize",
			"True Grit",
			"Second Wind",
			"Entrench",
			"Sentinel",
		},
		BossRelicRanks: []string{
			"Runic Pyramid",
			"Black Blood",
			"Coffee Dripper",
			"Fusion Hammer",
			"Philosopher's Stone",
			"Sozu",
			"Cursed Key",
			"Snecko Eye",
			"Astrolabe",
			"Tiny House",
			"Velvet Choker",
			"Runic Dome",
			"Ectoplasm",
		},
		MapRewards:      defaultMapRewards(),
		GoodCardActions: defaultGoodCardActions,
		BadCardActions:  defaultBadCardActions,
	}
}

func silentTables() Tables {
	return Tables{
		CardRanks: []string{
			"Wraith Form",
			"After Image",
			"Adrenaline",
			"Malaise",
			"Die Die Die",
			"A Thousand Cuts",
			"Tools of the Trade",
			"Noxious Fumes",
			"Catalyst",
			"Footwork",
			"Leg Sweep",
			"Terror",
			"Backflip",
			"Dagger Spray",
			"Blade Dance",
			"Dash",
			"Blur",
			"Deflect",
			"Sucker Punch",
			"Escape Plan",
			"Dodge and Roll",
			skipSentinel,
			"Neutralize",
			"Survivor",
			"Strike",
			"Defend",
			"Shiv",
		},
		PlayRanks: []string{
			"After Image",
			"Wraith Form",
			"Adrenaline",
			"Malaise",
			"Noxious Fumes",
			"Footwork",
			"Catalyst",
			"Terror",
			"A Thousand Cuts",
			"Tools of the Trade",
			"Leg Sweep",
			"Die Die Die",
			"Dagger Spray",
			"Blade Dance",
			"Dash",
			"Sucker Punch",
			"Backflip",
			"Neutralize",
			"Shiv",
			"Strike",
			"Deflect",
			"Escape Plan",
			"Dodge and Roll",
			"Blur",
			"Survivor",
			"Defend",
		},
		MaxCopies: map[string]int{
			"A Thousand Cuts":    1,
			"Adrenaline":         1,
			"After Image":        2,
			"Backflip":           2,
			"Blade Dance":        1,
			"Blur":               1,
			"Catalyst":           1,
			"Dagger Spray":       1,
			"Dash":               1,
			"Deflect":            1,
			"Die Die Die":        1,
			"Dodge and Roll":     1,
			"Escape Plan":        1,
			"Footwork":           2,
			"Leg Sweep":          1,
			"Malaise":            1,
			"Noxious Fumes":      1,
			"Sucker Punch":       1,
			"Terror":             1,
			"Tools of the Trade": 1,
			"Wraith Form":        1,
		},
		AOE: []string{
			"Die Die Die",
			"Dagger Spray",
		},
		Defensive: []string{
			"Defend_G",
			"Survivor",
			"Backflip",
			"Blur",
			"Deflect",
			"Dodge and Roll",
			"Escape Plan",
			"Leg Sweep",
			"Footwork",
		},
		BossRelicRanks: []string{
			"Runic Pyramid",
			"Ring of the Serpent",
			"Coffee Dripper",
			"Fusion Hammer",
			"Philosopher's Stone",
			"Sozu",
			"Cursed Key",
			"Snecko Eye",
			"Astrolabe",
			"Tiny House",
			"Velvet Choker",
			"Runic Dome",
			"Ectoplasm",
		},
		MapRewards:      defaultMapRewards(),
		GoodCardActions: defaultGoodCardActions,
		BadCardActions:  defaultBadCardActions,
	}
}

func defectTables() Tables {
	return Tables{
		CardRanks: []string{
			"Echo Form",
			"Defragment",
			"Electrodynamics",
			"Seek",
			"Capacitor",
			"Loop",
			"Glacier",
			"Coolheaded",
			"Ball Lightning",
			"Compile Driver",
			"Skim",
			"Sweeping Beam",
			"Blizzard",
			"Thunder Strike",
			"Leap",
			"Stack",
			"Boot Sequence",
			skipSentinel,
			"Zap",
			"Dualcast",
			"Strike",
			"Defend",
			"Hyperbeam",
		},
		PlayRanks: []string{
			"Echo Form",
			"Defragment",
			"Electrodynamics",
			"Capacitor",
			"Loop",
			"Seek",
			"Skim",
			"Coolheaded",
			"Blizzard",
			"Thunder Strike",
			"Ball Lightning",
			"Compile Driver",
			"Sweeping Beam",
			"Glacier",
			"Zap",
			"Dualcast",
			"Strike",
			"Leap",
			"Stack",
			"Boot Sequence",
			"Defend",
		},
		MaxCopies: map[string]int{
			"Ball Lightning":  2,
			"Blizzard":        1,
			"Boot Sequence":   1,
			"Capacitor":       1,
			"Compile Driver":  2,
			"Coolheaded":      2,
			"Defragment":      2,
			"Echo Form":       1,
			"Electrodynamics": 1,
			"Glacier":         2,
			"Leap":            1,
			"Loop":            1,
			"Seek":            1,
			"Skim":            2,
			"Stack":           1,
			"Sweeping Beam":   2,
			"Thunder Strike":  1,
		},
		AOE: []string{
			"Electrodynamics",
			"Sweeping Beam",
			"Thunder Strike",
			"Blizzard",
		},
		Defensive: []string{
			"Defend_B",
			"Leap",
			"Glacier",
			"Boot Sequence",
			"Stack",
		},
		BossRelicRanks: []string{
			"Runic Pyramid",
			"Frozen Core",
			"Coffee Dripper",
			"Fusion Hammer",
			"Philosopher's Stone",
			"Sozu",
			"Cursed Key",
			"Snecko Eye",
			"Astrolabe",
			"Tiny House",
			"Velvet Choker",
			"Runic Dome",
			"Ectoplasm",
		},
		MapRewards:      defaultMapRewards(),
		GoodCardActions: defaultGoodCardActions,
		BadCardActions:  defaultBadCardActions,
	}
}

/// baseTables is the class-agnostic fallback: no card knowledge beyond
// the shared prompt classification and map weights.
func baseTables() Tables {
	return Tables{
		MapRewards:      defaultMapRewards(),
		GoodCardActions: defaultGoodCardActions,
		BadCardActions:  defaultBadCardActions,
	}
}

// DefaultTables returns the compiled-in content for every playable
// class.
func DefaultTables() map[spire.PlayerClass]Tables {
	return map[spire.PlayerClass]Tables{
		spire.PlayerClassIronclad:  ironcladTables(),
		spire.PlayerClassTheSilent: silentTables(),
		spire.PlayerClassDefect:    defectTables(),
	}
}

// DefaultPolicies wraps DefaultTables in TablePolicy instances.
func DefaultPolicies() map[spire.PlayerClass]Policy {
	tables := DefaultTables()
	policies := make(map[spire.PlayerClass]Policy, len(tables))
	for class, t := range tables {
		policies[class] = NewTablePolicy(t)
	}
	return policies
}
