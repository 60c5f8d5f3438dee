package usecase

// boilerplatePrefixes are vendor compliance phrases glued to the front of
// product names by some source systems. Stripped case-insensitively before
// any other normalization; unmatched names pass through unchanged.
var boilerplatePrefixes = []string{
	"medically compliant -",
	"medically compliant:",
	"medically compliant",
	"med compliant -",
	"medical use only -",
}

// matchStopWords are unit/compliance tokens that appear in almost every
// product name and cause false positives when used as matching tokens.
// They stay in the normalized name for display; they are only dropped
// from the token set.
var matchStopWords = map[string]bool{
	// Cannabinoid/unit noise
	"mg": true, "thc": true, "cbd": true, "cbg": true, "cbn": true,
	"thca": true, "delta": true,
	// Packaging/count noise
	"pk": true, "pack": true, "ct": true, "count": true,
	"each": true, "ea": true, "unit": true, "units": true, "pc": true,
	// Basic English stop words
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "in": true, "with": true, "by": true, "for": true,
}

// productTypeTerms is the fixed vocabulary of product-form words. An item
// and a catalog entry whose type token subsets are non-empty and equal earn
// the product-type bonus in scoring.
var productTypeTerms = map[string]bool{
	// Concentrates
	"rosin": true, "resin": true, "wax": true, "shatter": true,
	"badder": true, "budder": true, "batter": true, "crumble": true,
	"sugar": true, "sauce": true, "diamonds": true, "distillate": true,
	"concentrate": true, "hash": true, "kief": true, "rso": true,
	// Vapes
	"cartridge": true, "cart": true, "carts": true, "vape": true,
	"disposable": true, "pod": true,
	// Flower forms
	"flower": true, "preroll": true, "pre-roll": true, "prerolls": true,
	"joint": true, "blunt": true, "infused": true, "shake": true,
	"eighth": true, "smalls": true,
	// Ingestibles
	"edible": true, "edibles": true, "gummy": true, "gummies": true,
	"chocolate": true, "beverage": true, "capsule": true, "capsules": true,
	"tincture": true, "syrup": true,
	// Topicals
	"topical": true, "balm": true, "lotion": true, "salve": true,
}

// strainTerms is a curated vocabulary of common cultivar-name words.
// Matching subsets of these between item and entry earn the strain bonus,
// and they seed the fallback strain lookup when no strain field exists.
var strainTerms = map[string]bool{
	"gmo": true, "runtz": true, "gelato": true, "zkittlez": true,
	"sherbet": true, "sherb": true, "cookies": true, "cookie": true,
	"kush": true, "haze": true, "og": true, "diesel": true, "sour": true,
	"dream": true, "blue": true, "purple": true, "granddaddy": true,
	"grand": true, "daddy": true, "gdp": true,
	"wedding": true, "cake": true, "mac": true, "chem": true, "chemdawg": true,
	"dawg": true, "glue": true, "gorilla": true, "mimosa": true,
	"dosidos": true, "dosi": true, "blueberry": true, "banana": true,
	"cherry": true, "pie": true, "lemon": true, "lime": true,
	"jack": true, "herer": true, "trainwreck": true, "pineapple": true,
	"express": true, "northern": true, "lights": true, "durban": true,
	"poison": true, "animal": true, "mints": true, "mint": true,
	"apple": true, "fritter": true, "biscotti": true, "sunset": true,
	"tangie": true, "guava": true, "papaya": true, "zaza": true,
	"grease": true, "monkey": true, "ice": true, "cream": true,
	"candy": true, "skunk": true, "bubba": true, "master": true,
	"afghan": true, "maui": true, "wowie": true, "acapulco": true,
	"widow": true, "white": true, "wookies": true, "slurricane": true,
	"cereal": true, "milk": true, "garlic": true, "motorbreath": true,
	"stardawg": true, "tropicana": true, "pup": true, "oreoz": true,
}
