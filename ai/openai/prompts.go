package openai

const fieldExtractionPrompt = `You are an expert resume parser. Extract the following fields from the resume:
name, email, phone, education (list), skills (list), experience (list), and professionalDetails (list).

Output ONLY valid JSON. Do not include any preamble, explanation, greeting, or acknowledgment.
Start your response directly with the opening brace { and end with the closing brace }.
Use an empty string or an empty list for any field the resume does not mention. Do not hallucinate.

Example:
{
  "name": "Jane Doe",
  "email": "jane.doe@example.com",
  "phone": "+1 555 0100",
  "education": ["B.Tech in Computer Science, IIT Delhi"],
  "skills": ["Python", "Machine Learning", "SQL"],
  "experience": ["Software Engineer at Infosys (2020-2022)"],
  "professionalDetails": ["Worked on NLP pipelines", "Contributed to AI models"]
}

Now extract the same from the following resume:`

const keySkillsPrompt = `You are a resume parsing assistant.
You are given a list of general and detailed skills from a resume.
Your task is to extract only the most job-relevant individual skills.
Respond ONLY with a clean, uncategorized, flat JSON array of skill strings.

IMPORTANT:
- Do NOT group skills
- Do NOT use categories
- Just list individual skills like: "Python", "Excel"
- Give me JSON only`
