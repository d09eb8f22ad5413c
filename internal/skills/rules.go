package skills

// Category is a fixed bucket used to group skills and steer question topics.
type Category string

const (
	Backend  Category = "Backend"
	Frontend Category = "Frontend"
	DataML   Category = "Data/ML"
	DevOps   Category = "DevOps/Cloud"
	QA       Category = "QA/Testing"
	Mobile   Category = "Mobile"
	Other    Category = "Other"
	// General is used for questions when no skills were detected at all.
	General Category = "General"
)

type rule struct {
	category Category
	keywords map[string]struct{}
}

// rules are scanned in order and the first match wins. A few keywords are listed
// under more than one category on purpose (kotlin, typescript).
var rules = []rule{
	newRule(Frontend,
		"javascript", "typescript", "react", "react.js", "reactjs", "vue", "vue.js", "vuejs",
		"angular", "svelte", "next.js", "nextjs", "nuxt", "html", "css", "tailwind", "bootstrap",
	),
	newRule(Mobile,
		"android", "kotlin", "swift", "ios", "react native", "flutter",
	),
	newRule(Backend,
		"python", "java", "c#", "csharp", "node", "node.js", "nodejs", "spring", "django",
		"fastapi", ".net", "dotnet", "php", "laravel", "express", "nest", "nest.js", "nestjs",
		"golang", "go", "ruby", "rails", "kotlin", "typescript",
	),
	newRule(DataML,
		"pandas", "numpy", "scikit-learn", "sklearn", "tensorflow", "pytorch", "keras", "mlflow",
		"airflow", "spark", "pyspark", "sql", "postgres", "postgresql", "mysql", "bigquery",
		"snowflake", "databricks", "lookml", "dbt",
	),
	newRule(DevOps,
		"docker", "kubernetes", "k8s", "aws", "azure", "gcp", "google cloud", "terraform",
		"ansible", "jenkins", "github actions", "gitlab ci", "ci/cd", "linux",
	),
	newRule(QA,
		"pytest", "junit", "selenium", "cypress", "playwright", "postman", "restassured",
	),
}

func newRule(category Category, keywords ...string) rule {
	set := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		set[k] = struct{}{}
	}
	return rule{category: category, keywords: set}
}

// Match returns the category of the first rule containing the normalized token.
func Match(token string) Category {
	for _, r := range rules {
		if _, ok := r.keywords[token]; ok {
			return r.category
		}
	}
	return Other
}

func isKeyword(token string) bool {
	return Match(token) != Other
}
