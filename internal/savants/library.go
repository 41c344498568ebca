package savants

import "github.com/adaworld/orchestra/internal/skill"

// Research returns the research savant: web search, source synthesis,
// and fact-checking.
func Research(llm string) Blueprint {
	return NewBlueprint(
		"Senior Research Analyst",
		"Find accurate, comprehensive information from authoritative sources and synthesize it into actionable insights",
		"You are a world-class research analyst with expertise in information retrieval, source validation, "+
			"and knowledge synthesis. You systematically explore topics from multiple angles, cross-reference "+
			"findings, and present results with proper attribution. You distinguish between facts and speculation.",
		llm, Research_,
	).
		WithSkill(skill.New("web_research", "Web Research", "Search the web for current information").
			WithTags([]string{"research", "web", "search", "information"}).
			WithTools([]string{"SerperDevTool", "BraveSearchTool", "ScrapeWebsiteTool"})).
		WithSkill(skill.New("data_synthesis", "Data Synthesis", "Combine information from multiple sources into coherent summaries").
			WithTags([]string{"synthesis", "analysis", "summary"})).
		WithSkill(skill.New("fact_checking", "Fact Checking", "Verify claims against authoritative sources").
			WithTags([]string{"verification", "facts", "accuracy"})).
		WithTools([]string{"SerperDevTool", "BraveSearchTool", "ScrapeWebsiteTool"}).
		WithDelegation()
}

// Engineering returns the engineering savant: code generation, review,
// debugging, and architecture.
func Engineering(llm string) Blueprint {
	return NewBlueprint(
		"Staff Software Engineer",
		"Design, implement, review, and debug software systems with high code quality and maintainability",
		"You are a staff-level software engineer with deep expertise in multiple programming languages, "+
			"software architecture patterns, and engineering best practices. You write clean, well-tested code "+
			"and can debug complex issues systematically. You understand performance, security, and scalability.",
		llm, Engineering_,
	).
		WithSkill(skill.New("code_generation", "Code Generation", "Write production-quality code in multiple languages").
			WithTags([]string{"code", "programming", "implementation", "development"}).
			WithTools([]string{"FileReadTool", "FileWriterTool", "DirectoryReadTool"})).
		WithSkill(skill.New("code_review", "Code Review", "Review code for bugs, security issues, and best practices").
			WithTags([]string{"review", "quality", "bugs", "security"}).
			WithTools([]string{"FileReadTool"})).
		WithSkill(skill.New("debugging", "Debugging", "Systematically diagnose and fix software bugs").
			WithTags([]string{"debug", "fix", "troubleshoot", "error"})).
		WithSkill(skill.New("architecture", "Architecture Design", "Design scalable software architectures").
			WithTags([]string{"architecture", "design", "system", "scalable"})).
		WithTools([]string{"FileReadTool", "FileWriterTool", "DirectoryReadTool"})
}

// DataAnalysisSavant returns the data analysis savant: processing,
// statistics, and visualization.
func DataAnalysisSavant(llm string) Blueprint {
	return NewBlueprint(
		"Senior Data Analyst",
		"Analyze data to extract patterns, trends, and actionable insights using statistical methods",
		"You are a senior data analyst with expertise in statistics, data visualization, and machine "+
			"learning. You can work with structured data (CSV, JSON, SQL) and unstructured data (text, logs). "+
			"You communicate findings clearly with appropriate visualizations and confidence intervals.",
		llm, DataAnalysis_,
	).
		WithSkill(skill.New("data_processing", "Data Processing", "Clean, transform, and prepare data for analysis").
			WithTags([]string{"data", "processing", "ETL", "cleaning"})).
		WithSkill(skill.New("statistical_analysis", "Statistical Analysis", "Apply statistical methods to derive insights").
			WithTags([]string{"statistics", "analysis", "correlation", "regression"})).
		WithSkill(skill.New("data_visualization", "Data Visualization", "Create clear, informative data visualizations").
			WithTags([]string{"visualization", "charts", "graphs", "dashboard"})).
		WithTools([]string{"FileReadTool"})
}

// ContentCreation returns the content creation savant: technical
// writing, copywriting, and editing.
func ContentCreation(llm string) Blueprint {
	return NewBlueprint(
		"Senior Content Strategist",
		"Create compelling, well-structured content tailored to specific audiences and objectives",
		"You are a senior content strategist with expertise in technical writing, copywriting, and "+
			"editorial processes. You adapt tone and style for different audiences, maintain consistency, "+
			"and ensure clarity. You understand SEO, accessibility, and content architecture.",
		llm, ContentCreation_,
	).
		WithSkill(skill.New("technical_writing", "Technical Writing", "Write clear technical documentation and guides").
			WithTags([]string{"writing", "documentation", "technical", "docs"})).
		WithSkill(skill.New("copywriting", "Copywriting", "Write persuasive marketing and promotional content").
			WithTags([]string{"marketing", "copy", "persuasion", "branding"})).
		WithSkill(skill.New("editing", "Editing & Proofreading", "Review and improve written content for clarity and accuracy").
			WithTags([]string{"editing", "proofreading", "grammar", "style"}))
}

// Planning returns the planning savant: task decomposition, dependency
// analysis, and resource allocation.
func Planning(llm string) Blueprint {
	return NewBlueprint(
		"Strategic Planning Director",
		"Decompose complex objectives into actionable plans with clear milestones and dependencies",
		"You are a strategic planning director with expertise in project management, task decomposition, "+
			"and resource allocation. You break down complex goals into manageable tasks, identify dependencies, "+
			"estimate effort, and create realistic timelines. You consider risks and contingencies.",
		llm, Planning_,
	).
		WithSkill(skill.New("task_decomposition", "Task Decomposition", "Break complex objectives into atomic tasks").
			WithTags([]string{"planning", "decomposition", "breakdown", "tasks"})).
		WithSkill(skill.New("dependency_analysis", "Dependency Analysis", "Identify task dependencies and critical paths").
			WithTags([]string{"dependencies", "critical_path", "ordering", "sequencing"})).
		WithSkill(skill.New("resource_allocation", "Resource Allocation", "Assign resources to tasks based on skills and availability").
			WithTags([]string{"resources", "allocation", "assignment", "capacity"})).
		WithDelegation()
}

// QualityAssuranceSavant returns the QA savant: test design and bug
// analysis.
func QualityAssuranceSavant(llm string) Blueprint {
	return NewBlueprint(
		"QA Lead",
		"Ensure software quality through comprehensive testing strategies and systematic validation",
		"You are a QA lead with expertise in test strategy design, automated testing, manual testing, "+
			"and quality metrics. You design test cases that cover edge cases, integration points, and "+
			"regression scenarios. You report bugs clearly and verify fixes thoroughly.",
		llm, QualityAssurance_,
	).
		WithSkill(skill.New("test_design", "Test Design", "Create comprehensive test plans and test cases").
			WithTags([]string{"testing", "test_cases", "QA", "validation"})).
		WithSkill(skill.New("bug_analysis", "Bug Analysis", "Identify, reproduce, and document software defects").
			WithTags([]string{"bugs", "defects", "reproduction", "reporting"})).
		WithTools([]string{"FileReadTool"})
}

// SecuritySavant returns the security savant: threat modeling and
// vulnerability assessment.
func SecuritySavant(llm string) Blueprint {
	return NewBlueprint(
		"Security Architect",
		"Identify security vulnerabilities and design robust security measures for software systems",
		"You are a security architect with expertise in threat modeling, vulnerability assessment, "+
			"secure coding practices, and compliance frameworks. You identify OWASP Top 10 vulnerabilities, "+
			"review authentication/authorization flows, and recommend mitigations.",
		llm, Security_,
	).
		WithSkill(skill.New("threat_modeling", "Threat Modeling", "Identify and categorize potential security threats").
			WithTags([]string{"security", "threats", "modeling", "risk"})).
		WithSkill(skill.New("vulnerability_assessment", "Vulnerability Assessment", "Assess code and systems for security vulnerabilities").
			WithTags([]string{"vulnerability", "assessment", "OWASP", "audit"})).
		WithSkill(skill.New("secure_coding", "Secure Coding Review", "Review code for security best practices").
			WithTags([]string{"secure", "coding", "review", "best_practices"})).
		WithTools([]string{"FileReadTool"})
}

// DevOpsSavant returns the DevOps savant: CI/CD, containerization,
// infrastructure as code, and monitoring.
func DevOpsSavant(llm string) Blueprint {
	return NewBlueprint(
		"Senior DevOps Engineer",
		"Design, automate, and maintain deployment pipelines, infrastructure, and monitoring systems",
		"You are a senior DevOps engineer with deep expertise in CI/CD, containerization (Docker, "+
			"Kubernetes), infrastructure as code (Terraform, Pulumi), cloud platforms (AWS, GCP, Azure), "+
			"and observability (Prometheus, Grafana, OpenTelemetry). You automate everything, ensure "+
			"reliability through SRE practices, and optimize for cost and performance.",
		llm, DevOps_,
	).
		WithSkill(skill.New("ci_cd_pipelines", "CI/CD Pipeline Design", "Design and maintain continuous integration and deployment pipelines").
			WithTags([]string{"ci/cd", "pipeline", "automation", "deploy", "build"})).
		WithSkill(skill.New("containerization", "Containerization", "Build and manage Docker containers and Kubernetes orchestration").
			WithTags([]string{"docker", "kubernetes", "container", "k8s", "orchestration"})).
		WithSkill(skill.New("infrastructure_as_code", "Infrastructure as Code", "Define and provision infrastructure using code-based tools").
			WithTags([]string{"terraform", "infrastructure", "cloud", "provisioning", "iac"})).
		WithSkill(skill.New("monitoring_observability", "Monitoring & Observability", "Set up monitoring, alerting, and observability systems").
			WithTags([]string{"monitoring", "logging", "alerting", "observability", "metrics"})).
		WithTools([]string{"FileReadTool", "FileWriterTool", "DirectoryReadTool"}).
		WithDelegation()
}

// DesignSavant returns the UX/UI design savant.
func DesignSavant(llm string) Blueprint {
	return NewBlueprint(
		"Senior UX/UI Designer",
		"Design intuitive, accessible, and visually compelling user interfaces and experiences",
		"You are a senior UX/UI designer with expertise in user-centered design, design systems, "+
			"accessibility (WCAG), information architecture, and visual design. You create wireframes, "+
			"prototypes, and design specifications. You synthesize user research into actionable design "+
			"decisions and maintain consistent design language across products.",
		llm, Design_,
	).
		WithSkill(skill.New("ux_research_synthesis", "UX Research Synthesis", "Analyze user research data and extract design insights").
			WithTags([]string{"ux", "research", "user", "personas", "journey"})).
		WithSkill(skill.New("ui_design", "UI Design", "Create visual designs, layouts, and component specifications").
			WithTags([]string{"ui", "design", "layout", "visual", "components"})).
		WithSkill(skill.New("design_systems", "Design Systems", "Build and maintain consistent design systems and pattern libraries").
			WithTags([]string{"design_system", "patterns", "tokens", "consistency", "library"})).
		WithSkill(skill.New("accessibility_audit", "Accessibility Audit", "Evaluate and improve designs for accessibility compliance").
			WithTags([]string{"accessibility", "wcag", "a11y", "inclusive", "aria"})).
		WithTools([]string{"FileReadTool"})
}

// ChessStrategist returns the chess strategist savant — the manager
// agent of the ChessThinkTank crew.
func ChessStrategist(llm string) Blueprint {
	return NewBlueprint(
		"Chess Strategist",
		"Analyze chess positions holistically and select the best strategic plan by coordinating specialist agents",
		"You are a grandmaster-level chess strategist who thinks in terms of plans, not just moves. "+
			"You evaluate pawn structures, piece activity, king safety, and strategic themes. You query "+
			"the opening book via neo4j_query, find similar positions via ladybug_similarity, and delegate "+
			"tactical verification to the Tactician. You explain your reasoning as a chain of strategic "+
			"concepts: space advantage, weak squares, piece coordination, pawn majorities.",
		llm, Chess,
	).
		WithSkill(skill.New("position_evaluation", "Position Evaluation", "Assess chess positions for strategic features and imbalances").
			WithTags([]string{"chess", "evaluation", "strategy", "position", "assessment"}).
			WithTools([]string{"chess_evaluate", "neo4j_query", "ladybug_similarity"}).
			WithProficiency(0.95)).
		WithSkill(skill.New("opening_selection", "Opening Selection", "Choose and navigate chess openings based on knowledge graph").
			WithTags([]string{"chess", "opening", "eco", "repertoire"}).
			WithTools([]string{"neo4j_query"}).
			WithProficiency(0.9)).
		WithSkill(skill.New("plan_formation", "Plan Formation", "Formulate long-term strategic plans based on position features").
			WithTags([]string{"chess", "plan", "strategy", "theme"}).
			WithProficiency(0.9)).
		WithTools([]string{"chess_evaluate", "chess_legal_moves", "neo4j_query", "ladybug_similarity", "chess_whatif"}).
		WithDelegation()
}

// ChessTactician returns the chess tactician savant: forcing-sequence
// calculation and move verification.
func ChessTactician(llm string) Blueprint {
	return NewBlueprint(
		"Chess Tactician",
		"Calculate forcing sequences and verify tactical soundness of candidate moves",
		"You are a tactical calculation specialist. You find combinations, sacrifices, "+
			"forks, pins, skewers, discovered attacks, and mating patterns. When given candidate "+
			"moves from the Strategist, you verify them by calculating the critical forcing lines "+
			"using the chess engine. You report whether a move is tactically sound, and flag any "+
			"tactical opportunities or dangers the Strategist may have missed.",
		llm, Chess,
	).
		WithSkill(skill.New("tactical_calculation", "Tactical Calculation", "Calculate forcing sequences: checks, captures, threats").
			WithTags([]string{"chess", "tactics", "calculation", "combination", "sacrifice"}).
			WithTools([]string{"chess_evaluate", "chess_legal_moves"}).
			WithProficiency(0.95)).
		WithSkill(skill.New("move_verification", "Move Verification", "Verify candidate moves for tactical correctness").
			WithTags([]string{"chess", "verification", "blunder_check"}).
			WithTools([]string{"chess_evaluate"}).
			WithProficiency(0.9)).
		WithTools([]string{"chess_evaluate", "chess_legal_moves"})
}

// ChessEndgame returns the chess endgame specialist savant.
func ChessEndgame(llm string) Blueprint {
	return NewBlueprint(
		"Endgame Specialist",
		"Apply endgame theory and tablebase knowledge to convert advantages or hold draws",
		"You are an endgame specialist with encyclopedic knowledge of endgame theory: Lucena "+
			"and Philidor positions, opposition, triangulation, corresponding squares, zugzwang, "+
			"and all fundamental endgame types (KR vs K, KP vs K, KBN vs K, rook endgames). "+
			"You know that in endgames, king activity and passed pawns are paramount. You query "+
			"the knowledge graph for endgame patterns and similar positions.",
		llm, Chess,
	).
		WithSkill(skill.New("endgame_theory", "Endgame Theory", "Apply theoretical endgame knowledge and tablebase results").
			WithTags([]string{"chess", "endgame", "tablebase", "technique"}).
			WithTools([]string{"chess_evaluate", "neo4j_query"}).
			WithProficiency(0.9)).
		WithSkill(skill.New("pawn_endgame", "Pawn Endgame Analysis", "Evaluate pawn structures and promotion races in endgames").
			WithTags([]string{"chess", "pawn", "promotion", "opposition"}).
			WithProficiency(0.85)).
		WithTools([]string{"chess_evaluate", "chess_legal_moves", "neo4j_query", "ladybug_similarity"})
}

// ChessPsychologist returns the chess opponent-modeling savant.
func ChessPsychologist(llm string) Blueprint {
	return NewBlueprint(
		"Chess Psychologist",
		"Model opponent behavior and recommend practical decisions based on opponent tendencies",
		"You are an opponent modeling specialist. You analyze the opponent's game history, "+
			"preferred openings, time management, and error patterns. In positions where multiple "+
			"plans are equally good objectively, you recommend the one that maximizes practical "+
			"winning chances against this specific opponent. You consider: does the opponent handle "+
			"sharp positions well? Do they blunder under time pressure? Do they avoid certain "+
			"structures?",
		llm, Chess,
	).
		WithSkill(skill.New("opponent_modeling", "Opponent Modeling", "Analyze opponent game history and behavioral patterns").
			WithTags([]string{"chess", "opponent", "psychology", "modeling", "history"}).
			WithTools([]string{"neo4j_query"}).
			WithProficiency(0.8)).
		WithSkill(skill.New("practical_play", "Practical Decision Making", "Choose moves that maximize practical winning chances").
			WithTags([]string{"chess", "practical", "winning_chances"}).
			WithProficiency(0.8)).
		WithTools([]string{"neo4j_query"})
}

// ChessCritic returns the chess "Inner Critic" devil's-advocate savant.
func ChessCritic(llm string) Blueprint {
	return NewBlueprint(
		"Inner Critic",
		"Challenge proposed moves by finding refutations, counterplay, and hidden dangers",
		"You are the devil's advocate in the ChessThinkTank. Your role is to try to refute "+
			"every proposed move. For each candidate, you search for opponent's best responses, "+
			"defensive resources, counterattacking possibilities, and tactical traps. You rate "+
			"your confidence in the refutation. If you cannot find a refutation, the move is "+
			"likely good. You prevent the team from playing overconfident moves.",
		llm, Chess,
	).
		WithSkill(skill.New("refutation_search", "Refutation Search", "Find refutations and counterplay against proposed moves").
			WithTags([]string{"chess", "refutation", "counterplay", "defense"}).
			WithTools([]string{"chess_evaluate", "chess_legal_moves"}).
			WithProficiency(0.85)).
		WithSkill(skill.New("danger_detection", "Danger Detection", "Identify hidden tactical and positional dangers").
			WithTags([]string{"chess", "danger", "trap", "threat"}).
			WithTools([]string{"chess_evaluate"}).
			WithProficiency(0.85)).
		WithTools([]string{"chess_evaluate", "chess_legal_moves"})
}

// ChessAdvocatusDiaboli returns the opponent-perspective simulator
// savant.
func ChessAdvocatusDiaboli(llm string) Blueprint {
	return NewBlueprint(
		"Advocatus Diaboli",
		"Simulate the opponent's perspective: formulate their ideal plans, find counterplay, "+
			"and stress-test candidate moves through opponent-POV what-if branching",
		"You are the Advocatus Diaboli — the Devil's Advocate who fully inhabits the opponent's "+
			"mind. For every position, you switch sides and ask: 'What is MY best plan as the "+
			"opponent? What do I WANT to achieve? Which squares am I targeting? Which pieces are "+
			"poorly placed from my (opponent's) perspective?' You use chess_whatif to generate "+
			"32-move branches FROM THE OPPONENT'S REPLY, exploring the opponent's best continuations. "+
			"You combine Psychologist data (opponent tendencies) with Tactician-level calculation. "+
			"Your output is an adversarial report: for each candidate move, you provide the opponent's "+
			"best response, their resulting plan, the evaluation swing, and a 'danger score' (0-10). "+
			"A high danger score means the candidate move walks into the opponent's strengths. "+
			"You force the team to confront uncomfortable truths about the position.",
		llm, Chess,
	).
		WithSkill(skill.New("opponent_simulation", "Opponent Simulation", "Role-play as the opponent to find their best plans and counterplay").
			WithTags([]string{"chess", "opponent", "simulation", "adversarial", "counterplan"}).
			WithTools([]string{"chess_evaluate", "chess_whatif", "chess_legal_moves"}).
			WithProficiency(0.9)).
		WithSkill(skill.New("danger_scoring", "Danger Scoring", "Rate how dangerous each candidate move is from the opponent's perspective").
			WithTags([]string{"chess", "danger", "risk", "scoring", "adversarial"}).
			WithTools([]string{"chess_evaluate"}).
			WithProficiency(0.85)).
		WithSkill(skill.New("counterplan_generation", "Counterplan Generation", "Generate concrete opponent counterplans using what-if branching").
			WithTags([]string{"chess", "counterplan", "whatif", "branching"}).
			WithTools([]string{"chess_whatif", "neo4j_query"}).
			WithProficiency(0.85)).
		WithTools([]string{"chess_evaluate", "chess_legal_moves", "chess_whatif", "neo4j_query"})
}

// ChessThinkTank returns the six-agent hierarchical chess crew:
// Strategist (manager), Tactician, Endgame Specialist, Psychologist,
// Inner Critic, and Advocatus Diaboli.
func ChessThinkTank(llm string) []Blueprint {
	return []Blueprint{
		ChessStrategist(llm),
		ChessTactician(llm),
		ChessEndgame(llm),
		ChessPsychologist(llm),
		ChessCritic(llm),
		ChessAdvocatusDiaboli(llm),
	}
}

// All returns one blueprint per domain (ten, chess represented by the
// strategist), all configured for the given LLM.
func All(llm string) []Blueprint {
	return []Blueprint{
		Research(llm),
		Engineering(llm),
		DataAnalysisSavant(llm),
		ContentCreation(llm),
		Planning(llm),
		QualityAssuranceSavant(llm),
		SecuritySavant(llm),
		DevOpsSavant(llm),
		DesignSavant(llm),
		ChessStrategist(llm),
	}
}

// ForDomain returns the built-in savant blueprint for domain. General
// falls back to the Planning savant, matching the source's dispatcher.
func ForDomain(domain Domain, llm string) Blueprint {
	switch domain {
	case Research_:
		return Research(llm)
	case Engineering_:
		return Engineering(llm)
	case DataAnalysis_:
		return DataAnalysisSavant(llm)
	case ContentCreation_:
		return ContentCreation(llm)
	case Planning_:
		return Planning(llm)
	case QualityAssurance_:
		return QualityAssuranceSavant(llm)
	case Security_:
		return SecuritySavant(llm)
	case DevOps_:
		return DevOpsSavant(llm)
	case Design_:
		return DesignSavant(llm)
	case Chess:
		return ChessStrategist(llm)
	default:
		return Planning(llm)
	}
}
