package classify

// Labels produced by the title checks
const (
	CategoryDataStructures = "Data Structures"
	CategoryTechnique      = "Algorithm Technique"
	CategoryAlgorithms     = "Algorithms"

	SubHashTables = "Hash Tables"
	SubArrays     = "Arrays"
	SubTrees      = "Trees"
	SubGraphs     = "Graphs"

	SubFrequencyCounting = "Frequency Counting"
	SubTwoPointers       = "Two Pointers"
	SubSlidingWindow     = "Sliding Window"
	SubBinarySearch      = "Binary Search"
	SubDFS               = "Depth-First Search"
	SubBFS               = "Breadth-First Search"

	SubStringAlgorithms  = "String Algorithms"
	SubGraphAlgorithms   = "Graph Algorithms"
	SubSortingAlgorithms = "Sorting Algorithms"
	SubSearchAlgorithms  = "Search Algorithms"
	SubDynamicProgram    = "Dynamic Programming"
)

// DefaultTaxonomy returns the built-in taxonomy. Each call returns a fresh,
// validated copy.
func DefaultTaxonomy() *Taxonomy {
	t := &Taxonomy{
		Default: CategoryAlgorithms,
		Categories: []Category{
			{
				Name:     "Data Structures and Algorithms",
				Keywords: []string{"data structures and algorithms", "dsa", "big o", "time complexity", "space complexity"},
			},
			{
				Name:          CategoryDataStructures,
				Keywords:      []string{"data structure", "hash", "array", "linked list", "stack", "queue", "heap", "tree", "graph", "trie"},
				Subcategories: []string{SubArrays, SubHashTables, "Linked Lists", "Stacks", "Queues", "Heaps", SubTrees, SubGraphs, "Tries"},
			},
			{
				Name:          CategoryAlgorithms,
				Keywords:      []string{"algorithm", "sorting", "recursion", "dynamic programming", "memoization", "greedy", "backtracking"},
				Subcategories: []string{SubStringAlgorithms, SubGraphAlgorithms, SubSortingAlgorithms, SubSearchAlgorithms, SubDynamicProgram},
			},
			{
				Name:          CategoryTechnique,
				Keywords:      []string{"technique", "two pointer", "sliding window", "binary search", "frequency", "depth-first", "breadth-first", "dfs", "bfs"},
				Subcategories: []string{SubFrequencyCounting, SubTwoPointers, SubSlidingWindow, SubBinarySearch, SubDFS, SubBFS},
			},
			{
				Name:     "LeetCode Problems",
				Keywords: []string{"leetcode", "coding challenge", "interview problem", "problem solving"},
			},
			{
				Name:          "Backend Engineering",
				Keywords:      []string{"backend", "server", "endpoint", "database", "authentication", "rest api", "graphql", "sql", "cache"},
				Subcategories: []string{"Authentication", "Storage", "APIs", "Databases"},
			},
			{
				Name:          "Frontend Engineering",
				Keywords:      []string{"frontend", "react", "next.js", "css", "html", "component", "browser", "dom"},
				Subcategories: []string{"React", "Next.js", "CSS"},
			},
			{
				Name:          "Cloud Engineering",
				Keywords:      []string{"cloud", "aws", "lambda", "s3 bucket", "ec2", "serverless"},
				Subcategories: []string{"AWS"},
			},
			{
				Name:     "DevOps",
				Keywords: []string{"devops", "docker", "kubernetes", "deployment", "ci/cd", "pipeline", "container"},
			},
			{
				Name:     "JavaScript",
				Keywords: []string{"javascript", "es6", "promise", "closure", "node.js"},
			},
			{
				Name:     "TypeScript",
				Keywords: []string{"typescript", "interface", "generic type", "type guard"},
			},
			{
				Name:     "Python",
				Keywords: []string{"python", "list comprehension", "decorator", "pip ", "django", "flask"},
			},
			{
				Name:     "System Design",
				Keywords: []string{"system design", "scalability", "load balancer", "sharding", "replication", "microservice"},
			},
			{
				Name:     "Machine Learning",
				Keywords: []string{"machine learning", "neural network", "model training", "regression", "classification model", "gradient descent"},
			},
			{
				Name:          "Finance",
				Keywords:      []string{"finance", "investment", "money", "stock", "budget", "savings", "portfolio", "retirement"},
				Subcategories: []string{"Investment", "Personal Finance", "Business Finance", "Stock Analysis"},
			},
			{
				Name:          "Psychology",
				Keywords:      []string{"psychology", "behavior", "cognitive", "mental health", "therapy", "mindset", "emotion"},
				Subcategories: []string{"Behavioral", "Cognitive"},
			},
			{
				Name:          "Business",
				Keywords:      []string{"business", "strategy", "management", "marketing", "leadership", "startup", "sales"},
				Subcategories: []string{"Strategy", "Management", "Marketing"},
			},
			{
				Name:          "Health",
				Keywords:      []string{"health", "nutrition", "fitness", "diet", "exercise", "workout", "wellness", "sleep"},
				Subcategories: []string{"Nutrition", "Fitness"},
			},
			{
				Name:          "Education",
				Keywords:      []string{"education", "teaching", "studying", "academic", "spaced repetition"},
				Subcategories: []string{"Learning Methods"},
			},
			{
				Name:          "Science",
				Keywords:      []string{"science", "physics", "biology", "chemistry", "experiment"},
				Subcategories: []string{"Physics", "Biology"},
			},
			{Name: "Philosophy", Keywords: []string{"philosophy", "ethics", "epistemology", "stoicism"}},
			{Name: "History", Keywords: []string{"history", "historical", "century", "empire"}},
			{Name: "Politics", Keywords: []string{"politics", "government", "election", "policy"}},
			{Name: "Economics", Keywords: []string{"economics", "economy", "inflation", "supply and demand"}},
			{Name: "Arts", Keywords: []string{"painting", "music", "sculpture", "artist"}},
			{Name: "Literature", Keywords: []string{"literature", "novel", "poetry", "author"}},
			{Name: "Travel", Keywords: []string{"travel", "itinerary", "destination"}},
			{Name: "Lifestyle", Keywords: []string{"lifestyle", "productivity", "personal development", "self improvement", "habit"}},
			{Name: "General"},
			{Name: "Miscellaneous"},
		},
		Aliases: defaultAliases(),
	}
	if err := t.Validate(); err != nil {
		panic("classify: built-in taxonomy is invalid: " + err.Error())
	}
	return t
}

func defaultAliases() []Alias {
	pairs := [][2]string{
		{"dsa", "Data Structures and Algorithms"},
		{"data structure", "Data Structures"},
		{"algorithm", "Algorithms"},
		{"technique", "Algorithm Technique"},
		{"leetcode", "LeetCode Problems"},
		{"coding challenge", "LeetCode Problems"},
		{"problem solving", "LeetCode Problems"},

		{"python", "Python"},

		{"javascript", "JavaScript"},
		{"js", "JavaScript"},
		{"es6", "JavaScript"},

		{"typescript", "TypeScript"},
		{"ts", "TypeScript"},

		{"backend", "Backend Engineering"},
		{"api", "Backend Engineering > APIs"},
		{"rest", "Backend Engineering > APIs"},
		{"graphql", "Backend Engineering > APIs"},
		{"database", "Backend Engineering > Databases"},
		{"sql", "Backend Engineering > Databases"},
		{"nosql", "Backend Engineering > Databases"},
		{"auth", "Backend Engineering > Authentication"},
		{"storage", "Backend Engineering > Storage"},
		{"s3", "Backend Engineering > Storage"},

		{"frontend", "Frontend Engineering"},
		{"react", "Frontend Engineering > React"},
		{"next", "Frontend Engineering > Next.js"},
		{"css", "Frontend Engineering > CSS"},
		{"html", "Frontend Engineering"},

		{"cloud", "Cloud Engineering"},
		{"aws", "Cloud Engineering > AWS"},
		{"docker", "DevOps"},
		{"kubernetes", "DevOps"},
		{"devops", "DevOps"},

		{"system", "System Design"},
		{"ml", "Machine Learning"},
		{"ai", "Machine Learning"},
		{"machine learning", "Machine Learning"},
		{"artificial intelligence", "Machine Learning"},

		{"money", "Finance"},
		{"investment", "Finance > Investment"},
		{"investing", "Finance > Investment"},
		{"stock", "Finance > Stock Analysis"},
		{"trading", "Finance > Stock Analysis"},
		{"portfolio", "Finance > Investment"},
		{"budget", "Finance > Personal Finance"},
		{"savings", "Finance > Personal Finance"},
		{"retirement", "Finance > Personal Finance"},
		{"financial planning", "Finance > Personal Finance"},
		{"business finance", "Finance > Business Finance"},
		{"corporate finance", "Finance > Business Finance"},

		{"psychology", "Psychology"},
		{"behavior", "Psychology > Behavioral"},
		{"cognitive", "Psychology > Cognitive"},
		{"mental health", "Psychology"},
		{"therapy", "Psychology"},
		{"mindset", "Psychology"},

		{"business", "Business"},
		{"strategy", "Business > Strategy"},
		{"management", "Business > Management"},
		{"marketing", "Business > Marketing"},
		{"leadership", "Business > Management"},
		{"entrepreneurship", "Business > Strategy"},
		{"startup", "Business > Strategy"},

		{"health", "Health"},
		{"nutrition", "Health > Nutrition"},
		{"diet", "Health > Nutrition"},
		{"fitness", "Health > Fitness"},
		{"exercise", "Health > Fitness"},
		{"workout", "Health > Fitness"},
		{"wellness", "Health"},

		{"learning", "Education > Learning Methods"},
		{"education", "Education"},
		{"teaching", "Education"},
		{"study", "Education > Learning Methods"},
		{"academic", "Education"},

		{"science", "Science"},
		{"physics", "Science > Physics"},
		{"biology", "Science > Biology"},
		{"chemistry", "Science"},
		{"research", "Science"},

		{"philosophy", "Philosophy"},
		{"history", "History"},
		{"politics", "Politics"},
		{"government", "Politics"},
		{"economics", "Economics"},
		{"economy", "Economics"},
		{"literature", "Literature"},
		{"art", "Arts"},
		{"music", "Arts"},

		{"travel", "Travel"},
		{"lifestyle", "Lifestyle"},
		{"personal development", "Lifestyle"},
		{"self improvement", "Lifestyle"},
		{"productivity", "Lifestyle"},
	}

	aliases := make([]Alias, 0, len(pairs))
	for _, p := range pairs {
		aliases = append(aliases, Alias{Keyword: p[0], Target: p[1]})
	}
	return aliases
}
